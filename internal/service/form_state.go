// Package service runs the forum's form actions: validate the submitted form,
// require a session, persist, invalidate the affected pages and pick a redirect.
package service

import (
	"context"
	"log/slog"

	"agora/internal/middleware"
	"agora/internal/observability"
	"agora/internal/validation"

	"go.opentelemetry.io/otel/trace"
)

// Outcome classifies how a form action ended.
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeUnauthenticated
	OutcomeFailed
	OutcomeSucceeded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeFailed:
		return "failed"
	case OutcomeSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// FormState is what the client re-renders a form with.
type FormState struct {
	Errors  validation.FieldErrors `json:"errors"`
	Success bool                   `json:"success,omitempty"`
}

// Result is the outcome of a form action. Redirect is set only when the
// action succeeded and navigates away.
type Result struct {
	Outcome  Outcome
	State    FormState
	Redirect string
}

// Revalidator marks cached pages stale.
type Revalidator interface {
	Revalidate(ctx context.Context, path string)
}

func invalid(errs validation.FieldErrors) Result {
	return Result{Outcome: OutcomeInvalid, State: FormState{Errors: errs}}
}

func formError(outcome Outcome, msg string) Result {
	return Result{
		Outcome: outcome,
		State:   FormState{Errors: validation.FieldErrors{validation.FormKey: {msg}}},
	}
}

// failed reports a persistence error under _form, falling back when err has no message.
func failed(err error, fallback string) Result {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return formError(OutcomeFailed, msg)
}

func redirect(path string) Result {
	return Result{
		Outcome:  OutcomeSucceeded,
		State:    FormState{Errors: validation.FieldErrors{}},
		Redirect: path,
	}
}

// finish records res against action and closes the action span.
func finish(ctx context.Context, action string, span trace.Span, res Result, err error) Result {
	outcome := res.Outcome.String()
	middleware.FormActions.WithLabelValues(action, outcome).Inc()
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "form action failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
	observability.EndAction(span, outcome, err)
	return res
}
