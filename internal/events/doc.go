// Package events publishes domain events after successful writes.
//
// Two events exist: food_entry.added and profile_tracking.recorded. They are
// best effort; a failed publish is logged by the caller and never fails the
// request that caused it.
//
// AMQPPublisher sends events to RabbitMQ when events.amqp_url is configured.
// NopPublisher is used otherwise, and Recorder keeps events in memory for tests.
package events
