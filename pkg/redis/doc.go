// Package redis connects to the Redis server holding in-flight flow sessions.
//
// Connect parses a redis:// URL, applies the pool size and retries the first
// ping. Healthcheck adapts a client into a readiness probe. Storage is the
// prefixed key-value wrapper the session store is built on:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	st := redis.NewStorage(client, "flow:")
//	ok, err := st.SetNX(ctx, key, payload, 10*time.Minute)
package redis
