// Package prebuilt provides opinionated, ready-made flow templates
// ("prebuilts") for common patterns such as basic chat, RAG Q&A, and
// tool-calling agents. Each prebuilt exposes a simple configuration and
// returns a *fluentmind.Template that seeds a catalog or instantiates
// directly through the runtime façade.
package prebuilt
