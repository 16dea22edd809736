package meetings

import (
	"context"
	"errors"
	"testing"

	httperrors "github.com/dropDatabas3/meetpoint/internal/http/errors"
	"github.com/dropDatabas3/meetpoint/internal/store"
	"github.com/dropDatabas3/meetpoint/internal/store/memory"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	return NewService(Deps{Meetings: store.NewMeetings(memory.New())})
}

func TestCreate_OwnerIsSoleParticipant(t *testing.T) {
	svc := newTestService(t)
	m, err := svc.Create(context.Background(), "owner", CreateInput{Title: "Daily"})
	if err != nil {
		t.Fatalf("create err: %v", err)
	}
	if m.OwnerUID != "owner" || len(m.Participants) != 1 || m.Participants[0] != "owner" {
		t.Fatalf("m = %+v", m)
	}
	if m.Status != "scheduled" {
		t.Fatalf("status = %q", m.Status)
	}
}

func TestCreate_TitleRequired(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), "owner", CreateInput{Title: "   "})
	var appErr *httperrors.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 400 {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestGet_NotFoundBeforeOwnership(t *testing.T) {
	svc := newTestService(t)
	// Un id inexistente es 404 para cualquiera, nunca 403.
	_, err := svc.Get(context.Background(), "nadie", "no-existe")
	if !errors.Is(err, httperrors.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestGet_PrivateMeeting_StrangerForbidden(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	m, _ := svc.Create(ctx, "owner", CreateInput{Title: "Privada"})

	if _, err := svc.Get(ctx, "extraño", m.ID); !errors.Is(err, httperrors.ErrForbidden) {
		t.Fatalf("err = %v, want Forbidden", err)
	}
	// El owner sigue pudiendo leerla.
	if _, err := svc.Get(ctx, "owner", m.ID); err != nil {
		t.Fatalf("owner get err: %v", err)
	}
}

func TestGet_PublicMeeting_EnrollsReaderOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	m, _ := svc.Create(ctx, "owner", CreateInput{Title: "Abierta", IsPublic: true})

	got, err := svc.Get(ctx, "lector", m.ID)
	if err != nil {
		t.Fatalf("get err: %v", err)
	}
	if !got.IsParticipant("lector") {
		t.Fatalf("lector no inscripto: %v", got.Participants)
	}

	// Releer es no-op: la inscripción es at-most-once.
	again, err := svc.Get(ctx, "lector", m.ID)
	if err != nil {
		t.Fatalf("segundo get err: %v", err)
	}
	if len(again.Participants) != 2 {
		t.Fatalf("participants = %v", again.Participants)
	}
}

func TestList_VisibilityAndNoEnrollment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pub, _ := svc.Create(ctx, "owner", CreateInput{Title: "Pública", IsPublic: true})
	svc.Create(ctx, "owner", CreateInput{Title: "Privada del owner"})
	mine, _ := svc.Create(ctx, "lector", CreateInput{Title: "Mía"})

	visible, err := svc.List(ctx, "lector")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	ids := map[string]bool{}
	for _, m := range visible {
		ids[m.ID] = true
	}
	if len(visible) != 2 || !ids[pub.ID] || !ids[mine.ID] {
		t.Fatalf("visible = %v", ids)
	}

	// Listar no inscribe: la pública sigue con su único participante.
	got, _ := svc.Get(ctx, "owner", pub.ID)
	if len(got.Participants) != 1 {
		t.Fatalf("participants tras list = %v", got.Participants)
	}
}

func TestUpdate_OwnerOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	m, _ := svc.Create(ctx, "owner", CreateInput{Title: "Abierta", IsPublic: true})

	// Un participante inscripto tampoco puede escribir.
	if _, err := svc.Get(ctx, "lector", m.ID); err != nil {
		t.Fatal(err)
	}
	title := "Hackeada"
	if _, err := svc.Update(ctx, "lector", m.ID, UpdateInput{Title: &title}); !errors.Is(err, httperrors.ErrForbidden) {
		t.Fatalf("err = %v, want Forbidden", err)
	}

	title = "Retro semanal"
	status := "cancelled"
	got, err := svc.Update(ctx, "owner", m.ID, UpdateInput{Title: &title, Status: &status})
	if err != nil {
		t.Fatalf("update err: %v", err)
	}
	if got.Title != "Retro semanal" || got.Status != "cancelled" {
		t.Fatalf("got = %+v", got)
	}
}

func TestUpdate_NoFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	m, _ := svc.Create(ctx, "owner", CreateInput{Title: "Daily"})

	if _, err := svc.Update(ctx, "owner", m.ID, UpdateInput{}); !errors.Is(err, httperrors.ErrNoValidFields) {
		t.Fatalf("err = %v, want NoValidFields", err)
	}
	empty := "  "
	if _, err := svc.Update(ctx, "owner", m.ID, UpdateInput{Title: &empty}); !errors.Is(err, httperrors.ErrNoValidFields) {
		t.Fatalf("título vacío: err = %v, want NoValidFields", err)
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	m, _ := svc.Create(ctx, "owner", CreateInput{Title: "Efímera"})

	if err := svc.Delete(ctx, "otro", m.ID); !errors.Is(err, httperrors.ErrForbidden) {
		t.Fatalf("err = %v, want Forbidden", err)
	}
	if err := svc.Delete(ctx, "owner", m.ID); err != nil {
		t.Fatalf("delete err: %v", err)
	}
	if _, err := svc.Get(ctx, "owner", m.ID); !errors.Is(err, httperrors.ErrNotFound) {
		t.Fatalf("err tras delete = %v, want NotFound", err)
	}
}
