package errors

import (
	"encoding/json"
	"net/http"
)

// errorResponse estructura interna para la serialización JSON.
// El shape mínimo del contrato es {success:false, error:<message>};
// el código se incluye como campo extra para clientes que lo quieran.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// exposeDetail controla si el detalle de errores 5xx se expone al cliente.
// Se habilita solo fuera de producción (ver SetExposeDetail en el wiring).
var exposeDetail bool

// SetExposeDetail habilita/deshabilita la exposición del detalle de errores
// internos. Llamar una vez durante el wiring, antes de servir tráfico.
func SetExposeDetail(v bool) { exposeDetail = v }

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	msg := appErr.Message
	if appErr.Detail != "" {
		if appErr.HTTPStatus < 500 || exposeDetail {
			msg = msg + ": " + appErr.Detail
		}
	}
	if appErr.HTTPStatus >= 500 && exposeDetail && appErr.Err != nil {
		msg = msg + ": " + appErr.Err.Error()
	}

	resp := errorResponse{
		Success: false,
		Error:   msg,
		Code:    appErr.Code,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
