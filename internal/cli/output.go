package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/dashsdk"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// sessionView is the printable form of a session. Tokens are never printed.
type sessionView struct {
	Authenticated bool      `json:"authenticated"`
	Authorized    bool      `json:"authorized"`
	Denial        string    `json:"denial,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	Role          string    `json:"role,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt,omitzero"`
}

func viewOf(s *dashsdk.Session) sessionView {
	if s == nil {
		return sessionView{}
	}
	return sessionView{
		Authenticated: true,
		Authorized:    s.Authorized,
		Denial:        s.Denial,
		UserID:        s.User.ID,
		Email:         s.User.Email,
		Name:          s.User.Name,
		Role:          s.User.Role,
		ExpiresAt:     s.ExpiresAt,
	}
}

func printSession(w io.Writer, asJSON bool, s *dashsdk.Session) error {
	v := viewOf(s)
	if asJSON {
		return writeJSON(w, v)
	}
	if !v.Authenticated {
		_, err := fmt.Fprintln(w, "Not logged in.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "User:\t%s\n", v.Email)
	if v.Name != "" {
		fmt.Fprintf(tw, "Name:\t%s\n", v.Name)
	}
	fmt.Fprintf(tw, "Role:\t%s\n", v.Role)
	fmt.Fprintf(tw, "Expires:\t%s (in %s)\n",
		v.ExpiresAt.Local().Format(time.RFC3339), time.Until(v.ExpiresAt).Round(time.Second))
	if v.Authorized {
		fmt.Fprintf(tw, "Access:\tgranted\n")
	} else {
		fmt.Fprintf(tw, "Access:\tdenied (%s)\n", v.Denial)
	}
	return tw.Flush()
}
