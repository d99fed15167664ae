package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// ListingLogFile is the file, relative to the consumer's log directory,
// that receives one line per listed event.
const ListingLogFile = "events.log"

// StartListingConsumer connects to RabbitMQ, declares the event.listed
// queue and appends every message to <logDir>/events.log.  It reconnects
// with exponential backoff and only returns once ctx is cancelled.
// Messages that cannot be handled are rejected without requeue.
func StartListingConsumer(ctx context.Context, url, logDir string) error {
    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := Dial(url)
        if err != nil {
            log.Printf("listing-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, logDir)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Printf("listing-consumer: consume loop ended: %v; reconnecting", err)
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("listing-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(EventListedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.ConsumeWithContext(ctx, EventListedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := HandleListing(logDir, d.Body); err != nil {
            log.Printf("listing-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// HandleListing decodes an EventListedMessage and appends it to the listing
// log under logDir.
func HandleListing(logDir string, body []byte) error {
    var m EventListedMessage
    if err := json.Unmarshal(body, &m); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if m.EventID <= 0 {
        return fmt.Errorf("invalid event id %d", m.EventID)
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", logDir, err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, ListingLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    line := fmt.Sprintf("[%s] Event listed | event_id=%d | location=(%d, %d) | tickets=%d | %s\n",
        m.ListedAt, m.EventID, m.X, m.Y, m.TicketCount, m.Summary)
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
