package api

// ScheduleClassRequest carries the scheduler's local wall-clock input.
// Date/Time are interpreted in Timezone and stored canonically in UTC.
type ScheduleClassRequest struct {
	TeacherID       string `json:"teacher_id"`
	StudentID       string `json:"student_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Timezone        string `json:"timezone"`
	DurationMinutes int    `json:"duration_minutes"`
	ZoomLink        string `json:"zoom_link,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateClassRequest edits an existing class in place. The session keeps
// its id; the new time is conflict-checked excluding the class itself.
type UpdateClassRequest struct {
	TeacherID       string `json:"teacher_id"`
	StudentID       string `json:"student_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Timezone        string `json:"timezone"`
	DurationMinutes int    `json:"duration_minutes"`
	ZoomLink        string `json:"zoom_link,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// RescheduleClassRequest moves a class to a new local date/time without
// touching participants or duration.
type RescheduleClassRequest struct {
	SessionID string `json:"session_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timezone  string `json:"timezone"`
}

// ClassResponse is the stored session plus its start rendered in the
// viewer's timezone.
type ClassResponse struct {
	ID              string `json:"id"`
	TeacherID       string `json:"teacher_id"`
	StudentID       string `json:"student_id"`
	UTCDate         string `json:"utc_date"`
	UTCTime         string `json:"utc_time"`
	UTCDateTime     string `json:"utc_datetime"`
	LocalDate       string `json:"local_date"`
	LocalTime       string `json:"local_time"`
	ViewerTimezone  string `json:"viewer_timezone"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
	Timezone        string `json:"timezone"`
	ZoomLink        string `json:"zoom_link,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// ConvertRequest previews a conversion for the scheduling form: local to
// UTC when Direction is "to_utc", UTC to local when "from_utc".
type ConvertRequest struct {
	Direction string `json:"direction"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timezone  string `json:"timezone"`
}

type ConvertResponse struct {
	UTCDate     string `json:"utc_date,omitempty"`
	UTCTime     string `json:"utc_time,omitempty"`
	UTCDateTime string `json:"utc_datetime,omitempty"`
	LocalDate   string `json:"local_date,omitempty"`
	LocalTime   string `json:"local_time,omitempty"`
	Timezone    string `json:"timezone"`
	Display     string `json:"display,omitempty"`
}

// TimezoneEntry is one option in the timezone picker.
type TimezoneEntry struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type TimezonesResponse struct {
	Timezones []TimezoneEntry `json:"timezones"`
	Default   string          `json:"default"`
	// LocalDate/LocalTime carry "now" in the default zone, used by the
	// scheduling form to pre-fill its date and time fields.
	LocalDate string `json:"local_date"`
	LocalTime string `json:"local_time"`
}
