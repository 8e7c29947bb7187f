package models

import "github.com/google/uuid"

// Actor identifies who owns a cart, checkout or order: either an
// authenticated user or an anonymous guest session. Exactly one of the two
// identities is ever set; the constructors are the only way to build one.
type Actor struct {
	userID     uuid.UUID
	sessionKey string
}

func UserActor(userID uuid.UUID) Actor {
	return Actor{userID: userID}
}

func GuestActor(sessionKey string) Actor {
	return Actor{sessionKey: sessionKey}
}

func (a Actor) UserID() (uuid.UUID, bool) {
	return a.userID, a.userID != uuid.Nil
}

func (a Actor) SessionKey() (string, bool) {
	if a.userID != uuid.Nil {
		return "", false
	}

	return a.sessionKey, a.sessionKey != ""
}

func (a Actor) IsGuest() bool {
	return a.userID == uuid.Nil
}

func (a Actor) IsZero() bool {
	return a.userID == uuid.Nil && a.sessionKey == ""
}

// String renders the identity for log lines.
func (a Actor) String() string {
	if a.userID != uuid.Nil {
		return "user:" + a.userID.String()
	}

	if a.sessionKey != "" {
		return "guest:" + a.sessionKey
	}

	return "unknown"
}
