// Package stream implements the minimal demand-driven reactive-stream
// contract the codec assumes: Publisher/Subscriber/Subscription with
// cumulative Request(n) and Cancel. There is no fan-out; a Publisher serves
// exactly one Subscriber for its lifetime.
package stream
