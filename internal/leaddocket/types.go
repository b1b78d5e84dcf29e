// Package leaddocket implements a client for the LeadDocket REST API:
// paginated change listing, per-lead detail expansion, and the shared
// single-retry policy the API's rate limiting requires.
package leaddocket

// changesPage is the response envelope of the laststatuschangesince
// endpoint. TotalRecordCount and TotalPages describe the full result
// set, not just the page carried in Records.
type changesPage struct {
	TotalRecordCount int           `json:"TotalRecordCount"`
	TotalPages       int           `json:"TotalPages"`
	Records          []LeadSummary `json:"Records"`
}

// LeadSummary is the minimal per-lead record returned by the change
// listing. It exists only to drive detail expansion and is discarded
// afterwards.
type LeadSummary struct {
	ID int `json:"Id"`
}

// Contact is the demographic block of a lead. It is always present in
// the detail payload, though individual fields may be null.
type Contact struct {
	FirstName              *string `json:"FirstName"`
	MiddleName             *string `json:"MiddleName"`
	LastName               *string `json:"LastName"`
	Address1               *string `json:"Address1"`
	Address2               *string `json:"Address2"`
	City                   *string `json:"City"`
	State                  *string `json:"State"`
	Zip                    *string `json:"Zip"`
	County                 *string `json:"County"`
	HomePhone              *string `json:"HomePhone"`
	MobilePhone            *string `json:"MobilePhone"`
	WorkPhone              *string `json:"WorkPhone"`
	Email                  *string `json:"Email"`
	PreferredContactMethod *string `json:"PreferredContactMethod"`
	Birthdate              *string `json:"Birthdate"`
	SubscribeToMailingList *bool   `json:"SubscribeToMailingList"`
	BadAddress             *bool   `json:"BadAddress"`
	Deceased               *bool   `json:"Deceased"`
	Gender                 *string `json:"Gender"`
	Minor                  *bool   `json:"Minor"`
	Language               *string `json:"Language"`
}

// PracticeArea is always present on a lead detail.
type PracticeArea struct {
	Name *string `json:"Name"`
	Code *string `json:"Code"`
}

// Person is the shape shared by the assigned-personnel sub-objects
// (paralegal, investigator, attorney, creator, intake). The API omits
// or nulls the whole object when nobody is assigned.
type Person struct {
	FirstName *string `json:"FirstName"`
	LastName  *string `json:"LastName"`
	Email     *string `json:"Email"`
	Code      *string `json:"Code"`
}

// Referral is the referred-by/referred-to sub-object.
type Referral struct {
	Name *string `json:"Name"`
}

// PhoneCall carries the originating call when a lead came in by phone.
type PhoneCall struct {
	ID           *int64  `json:"Id"`
	CallFrom     *string `json:"CallFrom"`
	CallTo       *string `json:"CallTo"`
	CallSID      *string `json:"CallSID"`
	Label        *string `json:"Label"`
	RecordingURL *string `json:"RecordingUrl"`
	CreatedDate  *string `json:"CreatedDate"`
}

// LeadDetail is the full nested lead record returned by GET leads/{id}.
// Optional sub-objects are pointers; nil means the API returned null or
// omitted the object entirely.
type LeadDetail struct {
	ID            int     `json:"Id"`
	Status        *string `json:"Status"`
	SubStatus     *string `json:"SubStatus"`
	SeverityLevel *string `json:"SeverityLevel"`
	Code          *string `json:"Code"`

	Contact      Contact      `json:"Contact"`
	PracticeArea PracticeArea `json:"PracticeArea"`

	MarketingSource        *string `json:"MarketingSource"`
	ContactSource          *string `json:"ContactSource"`
	TalkedToOtherAttorneys *bool   `json:"TalkedToOtherAttorneys"`
	UTM                    *string `json:"UTM"`
	CurrentURL             *string `json:"CurrentUrl"`
	ReferringURL           *string `json:"ReferringUrl"`
	ClickID                *string `json:"ClickId"`
	ClientID               *string `json:"ClientId"`
	Keywords               *string `json:"Keywords"`
	Campaign               *string `json:"Campaign"`
	AppointmentLocation    *string `json:"AppointmentLocation"`
	Office                 *string `json:"Office"`
	ReferredByName         *string `json:"ReferredByName"`

	CreatedDate              *string `json:"CreatedDate"`
	IncidentDate             *string `json:"IncidentDate"`
	RejectedDate             *string `json:"RejectedDate"`
	ReferredDate             *string `json:"ReferredDate"`
	AssignedDate             *string `json:"AssignedDate"`
	AppointmentScheduledDate *string `json:"AppointmentScheduledDate"`
	ChaseDate                *string `json:"ChaseDate"`
	SignedUpDate             *string `json:"SignedUpDate"`
	CaseClosedDate           *string `json:"CaseClosedDate"`
	LostDate                 *string `json:"LostDate"`
	UnderReviewDate          *string `json:"UnderReviewDate"`
	PendingSignupDate        *string `json:"PendingSignupDate"`
	HoldDate                 *string `json:"HoldDate"`

	Paralegal    *Person    `json:"Paralegal"`
	Investigator *Person    `json:"Investigator"`
	Attorney     *Person    `json:"Attorney"`
	Creator      *Person    `json:"Creator"`
	Intake       *Person    `json:"Intake"`
	ReferredBy   *Referral  `json:"ReferredBy"`
	ReferredTo   *Referral  `json:"ReferredTo"`
	PhoneCall    *PhoneCall `json:"PhoneCall"`
}

// Stats accumulates per-run counters. A fresh Stats is threaded through
// each run instead of process-wide globals so overlapping invocations
// cannot corrupt each other's progress reporting.
type Stats struct {
	// Requests counts every HTTP request issued upstream, including retries.
	Requests int
	// TotalRecords is the TotalRecordCount reported by the change listing.
	TotalRecords int
}
