// Package services holds domain services: pure business calculations that span more
// than one aggregate.
//
// FeeEngine prices an order at creation time. It combines the restaurant's
// DeliveryPolicy (what the customer is charged for delivery) with the platform's
// FeeSchedule (what a courier dispatch costs and what a commission marketplace would
// have taken) to produce the order's Charges.
//
// All arithmetic is integer cents. The marketplace fee is rounded half-up to the cent,
// so no float drift accumulates across orders.
package services
