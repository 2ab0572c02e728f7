// Package model defines the identity types shared by every topicmap package.
//
// # Identity Types
//
//   - TopicID: global, dense topic identifier (uint32) handed to consumers
//   - LocalID: per-(source, channel) zero-based identifier before offsetting
//   - Interval: a source's reserved, exclusive range [Base, Base+Size) of TopicIDs
//
// A TopicID is always Interval.Base + LocalID, and a LocalID is always below
// Interval.Size. Intervals of different sources never overlap.
package model
