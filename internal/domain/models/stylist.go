package models

import "time"

// HolidayLayout is the calendar-date layout used for stylist holidays.
const HolidayLayout = "2006-01-02"

// Stylist is a member of staff who can be booked.
type Stylist struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Available bool      `bson:"available" json:"available"`
	Breaks    []Break   `bson:"breaks" json:"breaks"`
	Holidays  []Holiday `bson:"holidays" json:"holidays"`
}

// Break is a blocked period in a stylist's day. The day it belongs to is the
// date part of StartTime.
type Break struct {
	ID        string    `bson:"id" json:"id"`
	StartTime time.Time `bson:"start_time" json:"start_time"`
	EndTime   time.Time `bson:"end_time" json:"end_time"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Holiday marks a full day off.
type Holiday struct {
	Date   string `bson:"date" json:"date"`
	Reason string `bson:"reason,omitempty" json:"reason,omitempty"`
}

// BreakRequest is the payload for adding or editing a break.
type BreakRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason"`
}

// HolidayRequest is the payload for marking a holiday.
type HolidayRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}
