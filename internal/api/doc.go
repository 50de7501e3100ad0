// Package api implements the HTTP surface of the service: run
// submission, status polling, and result export. Handlers validate and
// translate between wire payloads and domain types; execution belongs
// to the task layer.
package api
