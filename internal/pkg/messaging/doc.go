// Package messaging hides the broker behind a small publish/consume API so
// the notification consumers and outcome publisher run unchanged on Kafka,
// NATS, NSQ, Google Pub/Sub or RabbitMQ.
//
// Correlation headers travel natively where the broker supports headers
// (Kafka, NATS, RabbitMQ) and as string attributes on Pub/Sub. NSQ has no
// header concept, so consumers on NSQ generate a fresh correlation ID.
package messaging
