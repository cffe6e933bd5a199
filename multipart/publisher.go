package multipart

import (
	"io"

	"github.com/zostay/mimeflow/stream"
)

// staticPublisher publishes a fixed, already-in-memory sequence of chunks
// then completes. Used for buffered and entity-backed parts, whose bytes
// exist before anyone subscribes.
type staticPublisher struct {
	chunks [][]byte
}

func (s staticPublisher) Subscribe(sub stream.Subscriber[[]byte]) {
	q := stream.NewQueue[[]byte]()
	q.Subscribe(sub)
	for _, c := range s.chunks {
		if len(c) > 0 {
			q.Push(c)
		}
	}
	q.Complete()
}

// errorPublisher immediately fails any subscriber with a fixed error, used
// when a part's content cannot be produced at all (e.g. missing codec).
type errorPublisher struct {
	err error
}

func (e errorPublisher) Subscribe(sub stream.Subscriber[[]byte]) {
	q := stream.NewQueue[[]byte]()
	q.Subscribe(sub)
	q.Fail(e.err)
}

// filePublisher streams an io.ReadCloser in fixed-size chunks, reading
// only as much as the subscriber has requested. The reader is closed once
// exhausted, errored, or cancelled.
type filePublisher struct {
	r         io.ReadCloser
	chunkSize int
}

func (f *filePublisher) Subscribe(sub stream.Subscriber[[]byte]) {
	s := &fileSubscription{r: f.r, chunkSize: f.chunkSize, sub: sub}
	sub.OnSubscribe(s)
}

type fileSubscription struct {
	r         io.ReadCloser
	chunkSize int
	sub       stream.Subscriber[[]byte]
	done      bool
}

func (s *fileSubscription) Request(n int64) {
	for ; n > 0 && !s.done; n-- {
		buf := make([]byte, s.chunkSize)
		nr, err := s.r.Read(buf)
		if nr > 0 {
			s.sub.OnNext(buf[:nr])
		}
		if err == io.EOF {
			s.finish()
			s.sub.OnComplete()
			return
		}
		if err != nil {
			s.finish()
			s.sub.OnError(err)
			return
		}
	}
}

func (s *fileSubscription) Cancel() {
	s.finish()
}

func (s *fileSubscription) finish() {
	if s.done {
		return
	}
	s.done = true
	_ = s.r.Close()
}
