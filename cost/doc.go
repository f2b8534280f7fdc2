// Package cost estimates what calling catalog tools would cost.
//
// Estimates are derived from metadata already loaded with the catalog; no
// call is made. Each tool is charged tokens for its name and summary, its
// input schema and its example payload, at roughly four bytes per token. The
// latency estimate is a fixed baseline plus an overhead per schema field.
//
// Monetary figures use [decimal.Decimal] so sums over large plans do not
// drift:
//
//	est := cost.NewEstimator(snapshot, cost.DefaultConfig())
//	c, ok := est.Estimate("virtual_http-loadbalancer_create")
//	if ok {
//	    fmt.Println(c.Tokens, c.Latency, c.Cost)
//	}
//
// [Estimator.EstimatePlan] sums the create tools of every pending step of a
// [dependency.CreationPlan].
package cost
