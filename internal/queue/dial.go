package queue

import (
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// DialTimeout bounds the TCP connect and AMQP handshake to the broker.
const DialTimeout = 3 * time.Second

// Dial opens a broker connection that gives up after DialTimeout instead of
// waiting on the operating system's connect timeout.
func Dial(url string) (*amqp.Connection, error) {
    return amqp.DialConfig(url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(DialTimeout),
    })
}
