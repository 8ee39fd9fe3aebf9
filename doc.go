// Package foodbook holds the authentication core of the foodbook service:
// token issuance and validation, credential lookup, per-request identity
// resolution, and the HTTP helpers that turn resolution failures into
// responses.
//
// Request flow:
//   - RouteAuthenticator.Middleware installs an empty AuthContext for every
//     request, then lets public paths through untouched.
//   - For everything else it gathers Credentials (the upstream session
//     principal and the bearer token, header before cookie) and hands them
//     to a Resolver.
//   - The Resolver runs its strategies in order. The default chain tries the
//     session principal first and the bearer token second. The first
//     success wins and the user is stored in the AuthContext.
//   - A failure is rendered by path: API paths get a 401 JSON envelope,
//     page paths are redirected to the login page.
//
// Sessions:
//   - A user has at most one stored token. Auther.Login replaces any
//     previous token inside a transaction, Logout and ChangePassword delete
//     it, so a token that is still cryptographically valid stops working as
//     soon as its row is gone.
package foodbook
