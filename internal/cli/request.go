package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func newRequestCommand(e *env) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send an authenticated request and print the response body",
		Long: `Send any request with the session's bearer token. The token is refreshed
first when it is about to expire, and once more if the backend answers 401.

Examples:
  shiftctl request GET /api/users/me
  shiftctl request POST /api/things --data '{"name":"x"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])

			var body any
			if data != "" {
				body = []byte(data)
			}

			resp, err := e.manager.Request(cmd.Context(), method, args[1], body)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if _, err := io.Copy(cmd.OutOrStdout(), resp.Body); err != nil {
				return fmt.Errorf("read response: %w", err)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return fmt.Errorf("%s %s: %s", method, args[1], http.StatusText(resp.StatusCode))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return cmd
}
