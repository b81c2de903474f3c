// Package authform provides the sign-in and sign-up form state machine used
// by the Horizon banking front end, plus the HTTP controller that renders it.
//
// Form lifecycle:
//   - A Form is created for one FormVariant and owns its field values. Field
//     edits are rejected once a submission is in flight or has succeeded.
//   - Submit validates the values against the variant schema, then moves
//     idle -> submitting -> succeeded|failed. Failures always settle back to
//     idle with the entered values intact so the user can retry.
//   - A successful sign-in redirects to the home route exactly once through
//     the Navigator. A successful sign-up never redirects, the form switches
//     to a LinkAccountView instead.
//
// Identity:
//   - AccountService is the external identity provider. The identity package
//     ships a bun backed implementation with bcrypt hashing and JWT sessions.
//
// Activity sinks:
//   - ActivitySink receives submit and validation events. Sinks run best
//     effort, errors are logged and never change the form outcome.
package authform
