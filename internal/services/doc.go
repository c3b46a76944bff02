// Package services implements the atlas backend API on top of the authenticated [client.Client].
//
// # Fixtures
//
// [FixturesService] fetches upcoming fixtures and keeps them in a TTL cache (go-cache) so repeated views do not
// hit the backend.
//
// # Metrics
//
// [MetricsService] posts telemetry events. [MetricsService.Save] reports failures to the caller;
// [MetricsService.Beacon] is fire-and-forget and rate limited, the way a browser beacon would be.
//
// # User
//
// [UserService] ends the backend session.
//
// # Raw requests
//
// [APIService] performs arbitrary requests for the api command and returns non-2xx responses as data instead of
// errors.
//
// # Error Handling
//
// Services wrap failures with sentinel errors from the shared package:
//   - [shared.ErrFixturesUnavailable] : fixtures request or payload failed
//   - [shared.ErrMetricCapture] : metric event could not be saved
//   - [shared.ErrLogoutFailed] : logout request failed
//   - [shared.ErrAPIRequest] : raw request could not be sent
package services
