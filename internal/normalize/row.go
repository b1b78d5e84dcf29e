// Package normalize flattens nested LeadDocket detail records into the
// fixed row shape of the warehouse tables.
package normalize

// LeadRow is the flat, fixed-schema form of one lead. The json tags are
// the warehouse column names; BigQuery's newline-delimited JSON loader
// matches columns by key. Every field is emitted on every row, null
// when the source had nothing, so schema conformance never depends on
// which optional sub-objects the API happened to populate. The
// warehouse package asserts at test time that this struct and the table
// schema agree field-for-field.
type LeadRow struct {
	ID            int64   `json:"id"`
	Status        *string `json:"status"`
	SubStatus     *string `json:"substatus"`
	SeverityLevel *int64  `json:"severitylevel"`
	Code          *string `json:"code"`

	ContactFirstName              *string `json:"contact_firstname"`
	ContactMiddleName             *string `json:"contact_middlename"`
	ContactLastName               *string `json:"contact_lastname"`
	ContactAddress1               *string `json:"contact_address1"`
	ContactAddress2               *string `json:"contact_address2"`
	ContactCity                   *string `json:"contact_city"`
	ContactState                  *string `json:"contact_state"`
	ContactZip                    *string `json:"contact_zip"`
	ContactCounty                 *string `json:"contact_county"`
	ContactHomePhone              *string `json:"contact_homephone"`
	ContactMobilePhone            *string `json:"contact_mobilephone"`
	ContactWorkPhone              *string `json:"contact_workphone"`
	ContactEmail                  *string `json:"contact_email"`
	ContactPreferredContactMethod *string `json:"contact_preferredcontactmethod"`
	ContactBirthdate              *string `json:"contact_birthdate"`
	ContactSubscribeToMailingList *bool   `json:"contact_subscribetomailinglist"`
	ContactBadAddress             *bool   `json:"contact_badaddress"`
	ContactDeceased               *bool   `json:"contact_deceased"`
	ContactGender                 *string `json:"contact_gender"`
	ContactMinor                  *bool   `json:"contact_minor"`
	ContactLanguage               *string `json:"contact_language"`

	PracticeAreaName *string `json:"practicearea_name"`
	PracticeAreaCode *string `json:"practicearea_code"`

	MarketingSource        *string `json:"marketingsource"`
	ContactSource          *string `json:"contactsource"`
	TalkedToOtherAttorneys *bool   `json:"talkedtootherattorneys"`
	UTM                    *string `json:"utm"`
	CurrentURL             *string `json:"currenturl"`
	ReferringURL           *string `json:"referringurl"`
	ClickID                *string `json:"clickid"`
	ClientID               *string `json:"clientid"`
	Keywords               *string `json:"keywords"`
	Campaign               *string `json:"campaign"`
	AppointmentLocation    *string `json:"appointmentlocation"`
	Office                 *string `json:"office"`
	ReferredToName         *string `json:"referredto_name"`
	ReferredByName         *string `json:"referredbyname"`

	CreatedDate              *string `json:"createddate"`
	IncidentDate             *string `json:"incidentdate"`
	RejectedDate             *string `json:"rejecteddate"`
	ReferredDate             *string `json:"referreddate"`
	AssignedDate             *string `json:"assigneddate"`
	AppointmentScheduledDate *string `json:"appointmentscheduleddate"`
	ChaseDate                *string `json:"chasedate"`
	SignedUpDate             *string `json:"signedupdate"`
	CaseClosedDate           *string `json:"casecloseddate"`
	LostDate                 *string `json:"lostdate"`
	UnderReviewDate          *string `json:"underreviewdate"`
	PendingSignupDate        *string `json:"pendingsignupdate"`
	HoldDate                 *string `json:"holddate"`

	IntakeFirstName *string `json:"intake_firstname"`
	IntakeLastName  *string `json:"intake_lastname"`
	IntakeEmail     *string `json:"intake_email"`
	IntakeCode      *string `json:"intake_code"`

	ParalegalFirstName *string `json:"paralegal_firstname"`
	ParalegalLastName  *string `json:"paralegal_lastname"`
	ParalegalEmail     *string `json:"paralegal_email"`
	ParalegalCode      *string `json:"paralegal_code"`

	InvestigatorFirstName *string `json:"investigator_firstname"`
	InvestigatorLastName  *string `json:"investigator_lastname"`
	InvestigatorEmail     *string `json:"investigator_email"`
	InvestigatorCode      *string `json:"investigator_code"`

	AttorneyFirstName *string `json:"attorney_firstname"`
	AttorneyLastName  *string `json:"attorney_lastname"`
	AttorneyEmail     *string `json:"attorney_email"`
	AttorneyCode      *string `json:"attorney_code"`

	CreatorFirstName *string `json:"creator_firstname"`
	CreatorLastName  *string `json:"creator_lastname"`
	CreatorEmail     *string `json:"creator_email"`
	CreatorCode      *string `json:"creator_code"`

	PhoneCallID           *int64  `json:"phonecall_id"`
	PhoneCallCallFrom     *string `json:"phonecall_callfrom"`
	PhoneCallCallTo       *string `json:"phonecall_callto"`
	PhoneCallCallSID      *string `json:"phonecall_callsid"`
	PhoneCallLabel        *string `json:"phonecall_label"`
	PhoneCallRecordingURL *string `json:"phonecall_recordingurl"`
	PhoneCallCreatedDate  *string `json:"phonecall_createddate"`
}
