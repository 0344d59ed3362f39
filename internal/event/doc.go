/*
Package event provides a type-safe, pub/sub event bus used as a diagnostic
side channel alongside the orchestrator's outbound event queue.

# Architecture

The package is built on top of watermill's gochannel for infrastructure while
maintaining direct-call semantics to preserve type information. It provides
both synchronous and asynchronous event publishing patterns.

# Event Types

File Events:
  - file.edited: A patch-engine write landed on disk.

Permission Events:
  - permission.required: A safety assessment returned AskUser and an
    approval request is pending.
  - permission.resolved: A pending approval's one-shot channel received a
    decision.

Doom Loop Events:
  - doom_loop.detected: The same tool call repeated past the configured
    threshold.

# Basic Usage

Publishing events:

	event.Publish(event.Event{
		Type: event.FileEdited,
		Data: event.FileEditedData{Path: "/repo/main.go"},
	})

Subscribing to specific events:

	unsubscribe := event.Subscribe(event.FileEdited, func(e event.Event) {
		data := e.Data.(event.FileEditedData)
		log.Info().Str("path", data.Path).Msg("file edited")
	})
	defer unsubscribe()

# Subscriber Safety Guidelines

When using PublishSync, subscribers are called synchronously in the
publisher's goroutine. To avoid blocking or deadlocks, subscribers MUST:

  - Complete quickly (avoid long-running operations)
  - Use non-blocking channel sends (select with default case)
  - Never call Publish/PublishSync from within a subscriber
  - Never acquire locks that the publisher might hold

# Thread Safety

The event bus is thread-safe and can be used concurrently from multiple
goroutines. Both publishing and subscribing operations are protected by
internal synchronization.
*/
package event
