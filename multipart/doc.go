// Package multipart bridges the mime package's event-driven parser and
// encoder to the stream package's demand-driven Publisher/Subscriber
// contract, and defines BodyPart: a part's headers plus content that may
// be buffered, backed by a chunk publisher, or backed by an entity object
// serialized through a registered ContentCodec.
package multipart
