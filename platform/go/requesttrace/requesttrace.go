// Package requesttrace carries who is behind a write so stored documents can be attributed.
package requesttrace

import (
	"context"
	"errors"

	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
)

type contextKey struct{}

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindUser      ActorKind = "user"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// Actor identifies the initiator. ID is the auth uid for users and the tool name for system actors.
type Actor struct {
	Kind ActorKind
	ID   string
	Role string
}

// Ref is the value written to createdBy/updatedBy. Anonymous actors have none.
func (a Actor) Ref() string {
	switch a.Kind {
	case ActorKindUser:
		return a.ID
	case ActorKindSystem:
		if a.ID == "" {
			return string(ActorKindSystem)
		}
		return string(ActorKindSystem) + ":" + a.ID
	default:
		return ""
	}
}

// AuditInfo is the request-scoped trace stored on the context.
type AuditInfo struct {
	Actor      Actor
	RequestID  string
	RemoteAddr string
}

// IntoContext stores the AuditInfo in the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, contextKey{}, audit)
}

// FromContext extracts the AuditInfo from context, returning false when not present.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	audit, ok := ctx.Value(contextKey{}).(AuditInfo)
	return audit, ok
}

// Stamp writes the actor reference into doc[field] when the context carries an attributable actor.
// Any caller-supplied value for field is overwritten or removed.
func Stamp(ctx context.Context, doc map[string]any, field string) {
	audit, _ := FromContext(ctx)
	if ref := audit.Actor.Ref(); ref != "" {
		doc[field] = ref
		return
	}
	delete(doc, field)
}

// FromCredentials builds an AuditInfo for an authenticated request.
func FromCredentials(creds *platformauth.UserCredentials, requestID string) (AuditInfo, error) {
	if creds == nil {
		return AuditInfo{}, errors.New("credentials are required to build audit info")
	}
	if creds.Id == "" {
		return AuditInfo{}, errors.New("user id is required to build audit info")
	}
	return AuditInfo{
		Actor:     Actor{Kind: ActorKindUser, ID: creds.Id, Role: creds.Role},
		RequestID: requestID,
	}, nil
}

// Anonymous is used for public requests such as enquiry submission.
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{Actor: Actor{Kind: ActorKindAnonymous}, RequestID: requestID}
}

// System attributes writes to a tool, e.g. System("cli").
func System(tool string) AuditInfo {
	return AuditInfo{Actor: Actor{Kind: ActorKindSystem, ID: tool}}
}
