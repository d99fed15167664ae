// Package service publishes world events to RabbitMQ.  Errors are logged and
// returned so callers can ignore failures without interrupting the request
// flow.
package service

import (
    "context"
    "encoding/json"
    "log"
    "sync"
    "sync/atomic"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/event-ticket-finder/internal/model"
    q "github.com/iliyamo/event-ticket-finder/internal/queue"
)

// Defaults for the asynchronous hand-off used by Listener.
const (
    DefaultListingBuffer  = 1024
    DefaultPublishTimeout = 5 * time.Second
)

// ListingPublisher sends EventListedMessage values to the event.listed
// queue.  The broker connection is opened on first use and reopened after a
// failure.  Listener hands events to a background worker through a bounded
// buffer, so a slow or unreachable broker never holds up the caller; events
// that do not fit in the buffer are dropped and counted.
type ListingPublisher struct {
    url     string
    now     func() time.Time
    publish func(ctx context.Context, e *model.Event) error
    timeout time.Duration

    pending chan *model.Event
    done    chan struct{}
    stopped chan struct{}
    once    sync.Once
    dropped atomic.Int64

    mu   sync.Mutex
    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewListingPublisher returns a publisher for the broker at url and starts
// its background worker.  Close stops the worker.
func NewListingPublisher(url string) *ListingPublisher {
    p := newListingPublisher(url, DefaultListingBuffer)
    p.publish = p.PublishEventListed
    go p.run()
    return p
}

func newListingPublisher(url string, buffer int) *ListingPublisher {
    return &ListingPublisher{
        url:     url,
        now:     time.Now,
        timeout: DefaultPublishTimeout,
        pending: make(chan *model.Event, buffer),
        done:    make(chan struct{}),
        stopped: make(chan struct{}),
    }
}

// PublishEventListed publishes e as a persistent JSON message and waits for
// the broker write.
func (p *ListingPublisher) PublishEventListed(ctx context.Context, e *model.Event) error {
    body, err := json.Marshal(q.NewEventListedMessage(e, p.now()))
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channel()
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    p.now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.EventListedQueue, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        p.reset()
        return err
    }
    return nil
}

// Listener adapts the publisher to a repository create hook.  It only
// enqueues the event and returns immediately.
func (p *ListingPublisher) Listener() func(ctx context.Context, e *model.Event) {
    return func(_ context.Context, e *model.Event) {
        select {
        case <-p.done:
            p.drop(e)
            return
        default:
        }
        select {
        case p.pending <- e:
        default:
            p.drop(e)
        }
    }
}

// Dropped returns how many events were not published because the buffer
// was full or the publisher was closed.
func (p *ListingPublisher) Dropped() int64 { return p.dropped.Load() }

// Close stops the worker and releases the broker connection.  Events still
// buffered are discarded.
func (p *ListingPublisher) Close() error {
    p.once.Do(func() {
        close(p.done)
        if p.publish != nil {
            <-p.stopped
        }
        p.mu.Lock()
        p.reset()
        p.mu.Unlock()
    })
    return nil
}

func (p *ListingPublisher) run() {
    defer close(p.stopped)
    for {
        select {
        case <-p.done:
            return
        case e := <-p.pending:
            ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
            _ = p.publish(ctx, e)
            cancel()
        }
    }
}

func (p *ListingPublisher) drop(e *model.Event) {
    if n := p.dropped.Add(1); n == 1 || n%100 == 0 {
        log.Printf("rabbitmq: dropped event %d (%d dropped so far)", e.Identifier(), n)
    }
}

// channel must be called with mu held.
func (p *ListingPublisher) channel() (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    p.reset()

    conn, err := q.Dial(p.url)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return nil, err
    }
    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        _ = conn.Close()
        return nil, err
    }
    // durable so messages survive broker restarts
    if _, err := ch.QueueDeclare(q.EventListedQueue, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        _ = ch.Close()
        _ = conn.Close()
        return nil, err
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

func (p *ListingPublisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}
