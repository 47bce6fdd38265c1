package kv

import "slices"

// Option настраивает хранилище ключ-значение.
type Option func(*options)

type options struct {
	exempt []string
}

// WithQuotaExempt исключает ключи из учета квоты: их запись не проверяется
// и не расходует место, доступное остальным ключам.
func WithQuotaExempt(keys ...string) Option {
	return func(o *options) {
		o.exempt = append(o.exempt, keys...)
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.exempt == nil {
		o.exempt = []string{}
	}
	return o
}

func (o options) metered(key string) bool {
	return !slices.Contains(o.exempt, key)
}
