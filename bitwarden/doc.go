// Package bitwarden drives the Bitwarden command-line client ("bw").
//
// The package has three layers:
//
//   - Runner executes the bw binary and returns captured output plus the exit
//     status. ExecRunner spawns the real process; MockRunner replays canned
//     responses for tests.
//   - Client turns runner results into text, decoded JSON, or a *CommandError
//     for non-zero exits, and appends the session token to queries.
//   - SessionManager performs the login / unlock / lock lifecycle, asking a
//     CredentialPrompter for whatever credentials were not configured.
//
// Credentials are handed to bw through the child process environment
// (BW_PASSWORD, BW_CLIENTID, BW_CLIENTSECRET); the environment of the calling
// process is never modified. Session tokens are redacted from logs and errors.
//
// # Example
//
//	client := bitwarden.NewClient(bitwarden.NewExecRunner("bw"))
//	sessions := bitwarden.NewSessionManager(client, bitwarden.NewTerminalPrompter(), opts)
//
//	if _, err := sessions.EnsureLogin(ctx); err != nil {
//	    return err
//	}
//	session, err := sessions.Unlock(ctx)
//	if err != nil {
//	    return err
//	}
//	defer sessions.Lock(ctx)
//
//	items, err := client.ListItems(ctx, session)
package bitwarden
