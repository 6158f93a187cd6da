// Package services implements the driving port interfaces.
// Services hold the pipeline logic and call out to driven ports
// for extraction, retrieval, translation and generation.
//
// AdvisoryService is the entry point: it sequences the other
// services and records each stage a request passes through.
package services
