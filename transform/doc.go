// Package transform provides the leaf stages of a pipeline: a prompt
// Template, a rule-based model stand-in (Rules), field Extractors and a
// JSONParser, plus predicates for runnable.Branch.
//
// Rules exists so pipelines can run without a live model. Anything that
// implements runnable.Stage, a real model client included, can take its
// place.
package transform
