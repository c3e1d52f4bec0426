/*
Package resilience provides a circuit breaker and exponential backoff for
reconnecting clients.

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           v
	                                         Open

# Usage

	breaker := resilience.New("relay", resilience.Settings{Timeout: 15 * time.Second})
	backoff := &resilience.Backoff{Initial: 500 * time.Millisecond, Max: 30 * time.Second}

	err := breaker.Execute(func() error { return dial(ctx) })
	if errors.Is(err, resilience.ErrCircuitOpen) {
		wait = breaker.RetryAfter()
	} else if err != nil {
		wait = backoff.Next()
	}
*/
package resilience
