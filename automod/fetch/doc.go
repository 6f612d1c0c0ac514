// Network implementations of the engine's collaborator interfaces: posts from the author's PDS, profiles from an AppView, and image blob addresses.
//
// Each resolver carries its own optional rate limiter, since each one talks to a different service.
package fetch
