package normalize

import (
	"fmt"
	"time"

	"github.com/firmmetrics/leadsync/internal/leaddocket"
)

// birthdateLayout is the datetime shape the API uses for Birthdate.
// The warehouse column is a DATE, so the time portion is dropped.
const birthdateLayout = "2006-01-02T15:04:05"

// severityCodes maps the API's severity phrases to the numeric codes
// used by LeadDocket's own UI report exports. The match is exact; the
// phrases are fixed in the upstream product.
var severityCodes = map[string]int64{
	"No Case": 1,
	"Unlikely Case - No Injuries": 2,
	"Possible Case - Minor Injuries / Light Therapy / Short Hospital Stay": 3,
	"Likely Case - Moderate Injuries / Ongoing Treatment":                  4,
	"Very Likely Case - Severe Injuries / Catastrophic":                    5,
}

// UnknownSeverityError reports a severity phrase outside the five known
// values. The severitylevel column is an INTEGER, so an unmapped phrase
// cannot be loaded; failing here keeps the bad value out of the
// warehouse and names the offending lead.
type UnknownSeverityError struct {
	LeadID int
	Value  string
}

func (e *UnknownSeverityError) Error() string {
	return fmt.Sprintf("lead %d has unknown severity level %q", e.LeadID, e.Value)
}

// Normalize flattens one detail record into a LeadRow. Pure: no I/O,
// no mutation of the input. Absent optional sub-objects become blocks
// of null columns so every row carries the full column set.
func Normalize(detail leaddocket.LeadDetail) (LeadRow, error) {
	severity, err := severityCode(detail.ID, detail.SeverityLevel)
	if err != nil {
		return LeadRow{}, err
	}

	birthdate, err := birthdateToDate(detail.Contact.Birthdate)
	if err != nil {
		return LeadRow{}, fmt.Errorf("lead %d: %w", detail.ID, err)
	}

	paralegal := personOrEmpty(detail.Paralegal)
	investigator := personOrEmpty(detail.Investigator)
	attorney := personOrEmpty(detail.Attorney)
	creator := personOrEmpty(detail.Creator)
	intake := personOrEmpty(detail.Intake)
	referredTo := referralOrEmpty(detail.ReferredTo)
	phoneCall := phoneCallOrEmpty(detail.PhoneCall)

	return LeadRow{
		ID:            int64(detail.ID),
		Status:        detail.Status,
		SubStatus:     detail.SubStatus,
		SeverityLevel: severity,
		Code:          detail.Code,

		ContactFirstName:              detail.Contact.FirstName,
		ContactMiddleName:             detail.Contact.MiddleName,
		ContactLastName:               detail.Contact.LastName,
		ContactAddress1:               detail.Contact.Address1,
		ContactAddress2:               detail.Contact.Address2,
		ContactCity:                   detail.Contact.City,
		ContactState:                  detail.Contact.State,
		ContactZip:                    detail.Contact.Zip,
		ContactCounty:                 detail.Contact.County,
		ContactHomePhone:              detail.Contact.HomePhone,
		ContactMobilePhone:            detail.Contact.MobilePhone,
		ContactWorkPhone:              detail.Contact.WorkPhone,
		ContactEmail:                  detail.Contact.Email,
		ContactPreferredContactMethod: detail.Contact.PreferredContactMethod,
		ContactBirthdate:              birthdate,
		ContactSubscribeToMailingList: detail.Contact.SubscribeToMailingList,
		ContactBadAddress:             detail.Contact.BadAddress,
		ContactDeceased:               detail.Contact.Deceased,
		ContactGender:                 detail.Contact.Gender,
		ContactMinor:                  detail.Contact.Minor,
		ContactLanguage:               detail.Contact.Language,

		PracticeAreaName: detail.PracticeArea.Name,
		PracticeAreaCode: detail.PracticeArea.Code,

		MarketingSource:        detail.MarketingSource,
		ContactSource:          detail.ContactSource,
		TalkedToOtherAttorneys: detail.TalkedToOtherAttorneys,
		UTM:                    detail.UTM,
		CurrentURL:             detail.CurrentURL,
		ReferringURL:           detail.ReferringURL,
		ClickID:                detail.ClickID,
		ClientID:               detail.ClientID,
		Keywords:               detail.Keywords,
		Campaign:               detail.Campaign,
		AppointmentLocation:    detail.AppointmentLocation,
		Office:                 detail.Office,
		ReferredToName:         referredTo.Name,
		ReferredByName:         detail.ReferredByName,

		CreatedDate:              detail.CreatedDate,
		IncidentDate:             detail.IncidentDate,
		RejectedDate:             detail.RejectedDate,
		ReferredDate:             detail.ReferredDate,
		AssignedDate:             detail.AssignedDate,
		AppointmentScheduledDate: detail.AppointmentScheduledDate,
		ChaseDate:                detail.ChaseDate,
		SignedUpDate:             detail.SignedUpDate,
		CaseClosedDate:           detail.CaseClosedDate,
		LostDate:                 detail.LostDate,
		UnderReviewDate:          detail.UnderReviewDate,
		PendingSignupDate:        detail.PendingSignupDate,
		HoldDate:                 detail.HoldDate,

		IntakeFirstName: intake.FirstName,
		IntakeLastName:  intake.LastName,
		IntakeEmail:     intake.Email,
		IntakeCode:      intake.Code,

		ParalegalFirstName: paralegal.FirstName,
		ParalegalLastName:  paralegal.LastName,
		ParalegalEmail:     paralegal.Email,
		ParalegalCode:      paralegal.Code,

		InvestigatorFirstName: investigator.FirstName,
		InvestigatorLastName:  investigator.LastName,
		InvestigatorEmail:     investigator.Email,
		InvestigatorCode:      investigator.Code,

		AttorneyFirstName: attorney.FirstName,
		AttorneyLastName:  attorney.LastName,
		AttorneyEmail:     attorney.Email,
		AttorneyCode:      attorney.Code,

		CreatorFirstName: creator.FirstName,
		CreatorLastName:  creator.LastName,
		CreatorEmail:     creator.Email,
		CreatorCode:      creator.Code,

		PhoneCallID:           phoneCall.ID,
		PhoneCallCallFrom:     phoneCall.CallFrom,
		PhoneCallCallTo:       phoneCall.CallTo,
		PhoneCallCallSID:      phoneCall.CallSID,
		PhoneCallLabel:        phoneCall.Label,
		PhoneCallRecordingURL: phoneCall.RecordingURL,
		PhoneCallCreatedDate:  phoneCall.CreatedDate,
	}, nil
}

// severityCode translates the severity phrase to its numeric code.
// A null severity stays null; an unrecognized phrase is an error
// because it cannot be represented in the INTEGER column.
func severityCode(leadID int, level *string) (*int64, error) {
	if level == nil {
		return nil, nil
	}
	code, ok := severityCodes[*level]
	if !ok {
		return nil, &UnknownSeverityError{LeadID: leadID, Value: *level}
	}
	return &code, nil
}

// birthdateToDate reformats the API's datetime-shaped birthdate to a
// date-only string. The year-month-day components are rendered as plain
// integers ("2020-1-5"), matching the format of LeadDocket's exported
// UI reports, which the historical warehouse rows were loaded from.
func birthdateToDate(birthdate *string) (*string, error) {
	if birthdate == nil {
		return nil, nil
	}
	parsed, err := time.Parse(birthdateLayout, *birthdate)
	if err != nil {
		return nil, fmt.Errorf("parse birthdate %q: %w", *birthdate, err)
	}
	date := fmt.Sprintf("%d-%d-%d", parsed.Year(), int(parsed.Month()), parsed.Day())
	return &date, nil
}

func personOrEmpty(p *leaddocket.Person) leaddocket.Person {
	if p == nil {
		return leaddocket.Person{}
	}
	return *p
}

func referralOrEmpty(r *leaddocket.Referral) leaddocket.Referral {
	if r == nil {
		return leaddocket.Referral{}
	}
	return *r
}

func phoneCallOrEmpty(pc *leaddocket.PhoneCall) leaddocket.PhoneCall {
	if pc == nil {
		return leaddocket.PhoneCall{}
	}
	return *pc
}
