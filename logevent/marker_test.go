package logevent_test

import (
	"testing"

	"github.com/powerman/check"

	"github.com/powerman/loglayout/logevent"
)

func TestMarker_IsInstanceOf(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	audit := logevent.NewMarker("AUDIT")
	security := logevent.NewMarker("SECURITY", audit)
	login := logevent.NewMarker("LOGIN", security, nil)
	diamond := logevent.NewMarker("DIAMOND", login, security)

	tests := []struct {
		m    *logevent.Marker
		name string
		want bool
	}{
		{nil, "AUDIT", false},
		{audit, "AUDIT", true},
		{audit, "SECURITY", false},
		{login, "LOGIN", true},
		{login, "SECURITY", true},
		{login, "AUDIT", true},
		{login, "audit", false},
		{diamond, "AUDIT", true},
		{diamond, "OTHER", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			t := check.T(tt)
			t.Equal(tc.m.IsInstanceOf(tc.name), tc.want)
		})
	}
	t.Len(login.Parents(), 1)
}

func TestMarker_String(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	a := logevent.NewMarker("A")
	b := logevent.NewMarker("B", a)
	c := logevent.NewMarker("C", b, logevent.NewMarker("D"))
	t.Equal(a.String(), "A")
	t.Equal(b.String(), "B[ A ]")
	t.Equal(c.String(), "C[ B[ A ], D ]")
	var nilMarker *logevent.Marker
	t.Equal(string(nilMarker.AppendText([]byte("x"))), "x")
}

func TestMarker_WithParents(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	base := logevent.NewMarker("BASE", logevent.NewMarker("A"))
	ext := base.WithParents(logevent.NewMarker("B"))
	t.Equal(base.String(), "BASE[ A ]")
	t.Equal(ext.String(), "BASE[ A, B ]")
	t.True(ext.IsInstanceOf("B"))
	t.False(base.IsInstanceOf("B"))
}
