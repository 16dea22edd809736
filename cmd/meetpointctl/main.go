package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	var (
		baseURL = envOr("MEETPOINT_URL", "http://localhost:8080")
		token   = envOr("MEETPOINT_TOKEN", "")
		out     = envOr("MEETPOINT_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "meetpointctl",
		Short: "CLI para el API de meetpoint",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del API (env MEETPOINT_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Bearer token de sesión (env MEETPOINT_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: timeout}}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL, cl.Token, cl.OutFormat = baseURL, token, out
	}

	// health
	root.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Liveness probe del servicio",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/health", nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})

	// auth
	authCmd := &cobra.Command{Use: "auth", Short: "Registro y login manual"}

	var regFirst, regLast, regEmail, regPassword string
	var regAge int
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Registra una cuenta manual",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{"email": regEmail, "password": regPassword}
			if regFirst != "" {
				payload["firstName"] = regFirst
			}
			if regLast != "" {
				payload["lastName"] = regLast
			}
			if cmd.Flags().Changed("age") {
				payload["age"] = regAge
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/api/auth/register", b)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	registerCmd.Flags().StringVar(&regEmail, "email", "", "email de la cuenta")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "password")
	registerCmd.Flags().StringVar(&regFirst, "first-name", "", "nombre")
	registerCmd.Flags().StringVar(&regLast, "last-name", "", "apellido")
	registerCmd.Flags().IntVar(&regAge, "age", 0, "edad")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login por password (imprime el token de sesión)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _ := json.Marshal(map[string]string{"email": loginEmail, "password": loginPassword})
			status, body, err := cl.do("POST", "/api/auth/login", b)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email de la cuenta")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	authCmd.AddCommand(registerCmd, loginCmd)
	root.AddCommand(authCmd)

	// users
	usersCmd := &cobra.Command{Use: "users", Short: "Operaciones sobre el perfil propio"}
	usersCmd.AddCommand(&cobra.Command{
		Use:   "get <uid>",
		Short: "Trae el perfil propio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/users/"+args[0], nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})
	usersCmd.AddCommand(&cobra.Command{
		Use:   "delete <uid>",
		Short: "Borra el perfil propio y su registro de auth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("DELETE", "/api/users/"+args[0], nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})
	root.AddCommand(usersCmd)

	// meetings
	meetingsCmd := &cobra.Command{Use: "meetings", Short: "Operaciones sobre reuniones"}

	var mTitle, mDescription string
	var mPublic bool
	createMeetingCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea una reunión (el subject queda como owner)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _ := json.Marshal(map[string]any{
				"title":       mTitle,
				"description": mDescription,
				"isPublic":    mPublic,
			})
			status, body, err := cl.do("POST", "/api/meetings", b)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	createMeetingCmd.Flags().StringVar(&mTitle, "title", "", "título de la reunión")
	createMeetingCmd.Flags().StringVar(&mDescription, "description", "", "descripción")
	createMeetingCmd.Flags().BoolVar(&mPublic, "public", false, "reunión pública")
	_ = createMeetingCmd.MarkFlagRequired("title")

	meetingsCmd.AddCommand(createMeetingCmd)
	meetingsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista las reuniones visibles",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/meetings", nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})
	meetingsCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Trae una reunión (inscribe en las públicas)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/meetings/"+args[0], nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})
	meetingsCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Borra una reunión propia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("DELETE", "/api/meetings/"+args[0], nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	})
	root.AddCommand(meetingsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
