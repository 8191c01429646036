package domain

import (
	"testing"
	"time"
)

func TestSessionIsValid(t *testing.T) {
	expiry := int64(5_000_000)
	session := &Session{Token: "tok", UserID: "user-1", ExpiresAt: expiry}

	if !session.IsValid(time.Unix(expiry-1, 0)) {
		t.Error("session should be valid one second before expiry")
	}
	if session.IsValid(time.Unix(expiry, 0)) {
		t.Error("session should be invalid exactly at expiry")
	}
	if session.IsValid(time.Unix(expiry+1, 0)) {
		t.Error("session should be invalid after expiry")
	}
}
