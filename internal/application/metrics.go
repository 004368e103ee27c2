package application

// ResolutionSource names the fallback step that produced a rate.
type ResolutionSource string

const (
	SourceIdentity ResolutionSource = "identity"
	SourceCache    ResolutionSource = "cache"
	SourceExternal ResolutionSource = "external"
	SourceStatic   ResolutionSource = "static"
	SourceDefault  ResolutionSource = "default"
)

const (
	TierDurable = "durable"
	TierMemory  = "memory"
)

// Metrics observes failures that are recovered locally and never reach callers.
type Metrics interface {
	DependencyDegraded(component, operation string)
	RateResolved(source ResolutionSource)
	ConversionRecorded(tier string)
}

type NoopMetrics struct{}

func (NoopMetrics) DependencyDegraded(string, string) {}
func (NoopMetrics) RateResolved(ResolutionSource) {}
func (NoopMetrics) ConversionRecorded(string) {}
