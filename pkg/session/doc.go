// Package session stores the ephemeral secrets of an in-flight OAuth
// authorization (PKCE verifier, CSRF token, drive project id) and correlates
// them to the browser through a single opaque cookie.
//
// A Store holds records under keys it generates. RedisStore is the production
// backend and relies on Redis TTLs; MemoryStore serves tests and single
// process deployments. Broker is what the flows use:
//
//	broker, err := session.New(
//		session.WithStore(session.NewRedisStore(client)),
//		session.WithConfig(cfg),
//	)
//
//	// kick-off
//	err = broker.Create(ctx, w, session.Record{Flow: session.FlowLogin, Verifier: v, CSRF: csrf})
//
//	// callback
//	rec, err := broker.Retrieve(ctx, r)
//	...
//	_ = broker.Finish(ctx, w, rec)
//
// Broker errors are classified with core kinds so the HTTP layer can render
// them directly.
package session
