/*
Package dashsdk is the client side of the shiftboard dashboard: it signs an
operator in, keeps the session alive, and makes authenticated calls against
the backend.

# SDKClient vs Manager

The package is organized around two types:

  - SDKClient: raw, stateless backend calls (login, refresh, profile)
  - Manager: the session owner; persists it, refreshes it and retries on 401

	client := dashsdk.NewSDKClient("https://backend.example.com")
	mgr := dashsdk.NewManager(client, store)

	// Pick up the session saved by a previous run, if any.
	if sess := mgr.Restore(ctx); sess == nil {
		sess, err := mgr.Login(ctx, email, password)
		...
	}

	shifts, err := mgr.ListShifts(ctx, from, to)

# Refresh

Before each authenticated request the manager checks the access token's
expiry. Inside the refresh window (5 minutes by default) it refreshes first.
A 401 from the backend triggers one refresh and one retry; a second 401 is
handed back to the caller. Concurrent callers spending the same refresh
token share a single refresh call.

A refresh rejected by the backend (400 or 401) ends the session: memory and
storage are cleared and ErrRefreshRejected is returned.

# Authorization

Only ADMIN and MANAGER may use the dashboard. Other roles still log in, but
the session carries Authorized=false and a Denial message, and every
authenticated request returns *UnauthorizedError.

# Errors

	_, err := mgr.Login(ctx, email, password)
	switch {
	case errors.Is(err, dashsdk.ErrInvalidCredentials):
	case errors.Is(err, dashsdk.ErrMFARequired):
		// retry with dashsdk.WithOTP(code)
	}

	var apiErr *dashsdk.APIError
	if errors.As(err, &apiErr) {
		fmt.Println(apiErr.StatusCode, apiErr.Code)
	}
*/
package dashsdk
