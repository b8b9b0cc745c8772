package metrics

import (
	"expvar"
)

// Validation metrics (counters) using expvar maps keyed by outcome or
// violation kind.
var (
	validationsTotal = expvar.NewMap("fluentmind_validations_total")
	violationsTotal  = expvar.NewMap("fluentmind_violations_total")
)

// Flow pipeline metrics.
var (
	layoutsTotal       = new(expvar.Int)
	sanitizationsTotal = new(expvar.Int)
	submissionsTotal   = expvar.NewMap("fluentmind_submissions_total")
)

// Template catalog metrics.
var (
	instantiationsTotal = expvar.NewMap("fluentmind_instantiations_total")
	searchesTotal       = new(expvar.Int)
	catalogTemplates    = new(expvar.Int)
)

func init() {
	expvar.Publish("fluentmind_layouts_total", layoutsTotal)
	expvar.Publish("fluentmind_sanitizations_total", sanitizationsTotal)
	expvar.Publish("fluentmind_searches_total", searchesTotal)
	expvar.Publish("fluentmind_catalog_templates", catalogTemplates)
}

// Validation helpers
func IncValidations(outcome string) { validationsTotal.Add(outcome, 1) }
func AddViolations(kind string, n int64) { violationsTotal.Add(kind, n) }

// Pipeline helpers
func IncLayouts() { layoutsTotal.Add(1) }
func IncSanitizations() { sanitizationsTotal.Add(1) }
func IncSubmissions(outcome string) { submissionsTotal.Add(outcome, 1) }

// Template helpers
func IncInstantiations(mode string) { instantiationsTotal.Add(mode, 1) }
func IncSearches() { searchesTotal.Add(1) }
func SetCatalogTemplates(n int) { catalogTemplates.Set(int64(n)) }
