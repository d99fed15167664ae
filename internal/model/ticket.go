package model

import (
    "fmt"
    "math/rand/v2"
)

// Ticket price bounds in cents.
const (
    MinTicketPriceCents = 100
    MaxTicketPriceCents = 10000
)

// Ticket is a purchasable ticket for an event.  The price is stored in
// cents to keep comparisons exact.
type Ticket struct {
    priceCents int64
}

// NewTicket returns a ticket with a random price in
// [MinTicketPriceCents, MaxTicketPriceCents].
func NewTicket() Ticket {
    return ticketWithPrice(randomPrice(rand.Int64N))
}

// ticketWithPrice builds a ticket with a fixed price.
func ticketWithPrice(cents int64) Ticket {
    return Ticket{priceCents: cents}
}

func randomPrice(int64n func(int64) int64) int64 {
    return MinTicketPriceCents + int64n(MaxTicketPriceCents-MinTicketPriceCents+1)
}

// Price returns the ticket price in cents.
func (t Ticket) Price() int64 { return t.priceCents }

// String renders the price in dollars with two decimals, e.g. "12.50".
func (t Ticket) String() string {
    return fmt.Sprintf("%d.%02d", t.priceCents/100, t.priceCents%100)
}
