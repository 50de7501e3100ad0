// Package events provides a minimal in-process publish/subscribe
// mechanism used to announce run lifecycle transitions. The task layer
// emits an event when a run reaches a terminal state; downstream
// consumers (such as the result export sink) react without the task
// layer knowing about them.
package events
