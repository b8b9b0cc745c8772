package api

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// promMetricsHandler renders expvar-published metrics in Prometheus
// text exposition format. Known FluentMind metrics get HELP/TYPE
// headers; other numeric expvar vars fall back to an untyped gauge.
func promMetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	type meta struct {
		typ, help string
		isMap     bool
		label     string
	}
	metas := map[string]meta{
		"fluentmind_validations_total":    {typ: "counter", help: "Flow validations performed", isMap: true, label: "outcome"},
		"fluentmind_violations_total":     {typ: "counter", help: "Structural violations found", isMap: true, label: "kind"},
		"fluentmind_submissions_total":    {typ: "counter", help: "Flow submissions to the execution host", isMap: true, label: "outcome"},
		"fluentmind_instantiations_total": {typ: "counter", help: "Template instantiations", isMap: true, label: "mode"},
		"fluentmind_layouts_total":        {typ: "counter", help: "Flow layouts computed", isMap: false},
		"fluentmind_sanitizations_total":  {typ: "counter", help: "Flows sanitized", isMap: false},
		"fluentmind_searches_total":       {typ: "counter", help: "Template similarity searches", isMap: false},
		"fluentmind_catalog_templates":    {typ: "gauge", help: "Templates currently in the catalog", isMap: false},
	}

	// Collect variable names deterministically
	varNames := make([]string, 0, 64)
	expvar.Do(func(kv expvar.KeyValue) {
		varNames = append(varNames, kv.Key)
	})
	sort.Strings(varNames)

	printed := make(map[string]bool)

	writeHeader := func(name string, m meta) {
		if printed[name] {
			return
		}
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, sanitizeHelp(m.help))
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, m.typ)
		printed[name] = true
	}

	for _, name := range varNames {
		v := expvar.Get(name)
		m, known := metas[name]
		if !known {
			// Minimal rendering: publish as an untyped gauge if numeric
			if iv, ok := v.(*expvar.Int); ok {
				_, _ = fmt.Fprintf(w, "# TYPE %s gauge\n", name)
				_, _ = fmt.Fprintf(w, "%s %s\n", name, iv.String())
			}
			continue
		}
		writeHeader(name, m)
		if m.isMap {
			if mp, ok := v.(*expvar.Map); ok {
				// Collect subkeys deterministically
				sub := make([]expvar.KeyValue, 0, 8)
				mp.Do(func(kv expvar.KeyValue) { sub = append(sub, kv) })
				sort.Slice(sub, func(i, j int) bool { return sub[i].Key < sub[j].Key })
				for _, kv := range sub {
					fmt.Fprintf(w, "%s{%s=\"%s\"} %s\n", name, m.label, escapeLabel(kv.Key), kv.Value.String())
				}
			}
		} else {
			fmt.Fprintf(w, "%s %s\n", name, v.String())
		}
	}
}

func sanitizeHelp(s string) string {
	// Newlines would break the Prometheus text format
	return strings.ReplaceAll(s, "\n", " ")
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
