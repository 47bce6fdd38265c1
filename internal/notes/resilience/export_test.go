package resilience

// NewCircuitBreakerWithClock позволяет тестам управлять временем.
var NewCircuitBreakerWithClock = newCircuitBreaker
