// Package events provides analysis event publishers.
//
// Implementations:
//   - redis: Redis Streams, one capped stream per topic
//   - memory: In-process bus, used when Redis is not configured and in tests
package events
