// Package tank models a multi-fluid tank: an ordered stack of fluids sharing
// one capacity.
//
// Fluids are stored bottom to top, so index 0 is the layer resting on the
// tank floor. The gauge in package gauge draws and hit-tests layers in the
// same order, which keeps a clicked index meaningful to [Tank.MoveToBottom].
//
// Amounts are in millibuckets (mB). A Tank is a plain value with no locking;
// owners such as the stores in package store serialize access.
package tank
