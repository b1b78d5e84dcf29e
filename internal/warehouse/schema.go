package warehouse

import (
	"cloud.google.com/go/bigquery"
)

// LeadSchema is the fixed schema of both the production and staging
// lead tables. Column names match the json tags on normalize.LeadRow;
// schema_test.go enforces that correspondence in both directions.
var LeadSchema = bigquery.Schema{
	{Name: "id", Type: bigquery.IntegerFieldType},
	{Name: "status", Type: bigquery.StringFieldType},
	{Name: "substatus", Type: bigquery.StringFieldType},
	{Name: "severitylevel", Type: bigquery.IntegerFieldType},
	{Name: "code", Type: bigquery.StringFieldType},
	{Name: "contact_firstname", Type: bigquery.StringFieldType},
	{Name: "contact_middlename", Type: bigquery.StringFieldType},
	{Name: "contact_lastname", Type: bigquery.StringFieldType},
	{Name: "contact_address1", Type: bigquery.StringFieldType},
	{Name: "contact_address2", Type: bigquery.StringFieldType},
	{Name: "contact_city", Type: bigquery.StringFieldType},
	{Name: "contact_state", Type: bigquery.StringFieldType},
	{Name: "contact_zip", Type: bigquery.StringFieldType},
	{Name: "contact_county", Type: bigquery.StringFieldType},
	{Name: "contact_homephone", Type: bigquery.StringFieldType},
	{Name: "contact_mobilephone", Type: bigquery.StringFieldType},
	{Name: "contact_workphone", Type: bigquery.StringFieldType},
	{Name: "contact_email", Type: bigquery.StringFieldType},
	{Name: "contact_preferredcontactmethod", Type: bigquery.StringFieldType},
	{Name: "contact_birthdate", Type: bigquery.DateFieldType},
	{Name: "contact_subscribetomailinglist", Type: bigquery.BooleanFieldType},
	{Name: "contact_badaddress", Type: bigquery.BooleanFieldType},
	{Name: "contact_deceased", Type: bigquery.BooleanFieldType},
	{Name: "contact_gender", Type: bigquery.StringFieldType},
	{Name: "contact_minor", Type: bigquery.BooleanFieldType},
	{Name: "contact_language", Type: bigquery.StringFieldType},
	{Name: "practicearea_name", Type: bigquery.StringFieldType},
	{Name: "practicearea_code", Type: bigquery.StringFieldType},
	{Name: "marketingsource", Type: bigquery.StringFieldType},
	{Name: "contactsource", Type: bigquery.StringFieldType},
	{Name: "talkedtootherattorneys", Type: bigquery.BooleanFieldType},
	{Name: "utm", Type: bigquery.StringFieldType},
	{Name: "currenturl", Type: bigquery.StringFieldType},
	{Name: "referringurl", Type: bigquery.StringFieldType},
	{Name: "clickid", Type: bigquery.StringFieldType},
	{Name: "clientid", Type: bigquery.StringFieldType},
	{Name: "keywords", Type: bigquery.StringFieldType},
	{Name: "campaign", Type: bigquery.StringFieldType},
	{Name: "appointmentlocation", Type: bigquery.StringFieldType},
	{Name: "office", Type: bigquery.StringFieldType},
	{Name: "referredto_name", Type: bigquery.StringFieldType},
	{Name: "referredbyname", Type: bigquery.StringFieldType},
	{Name: "createddate", Type: bigquery.DateTimeFieldType},
	{Name: "incidentdate", Type: bigquery.DateTimeFieldType},
	{Name: "rejecteddate", Type: bigquery.DateTimeFieldType},
	{Name: "referreddate", Type: bigquery.DateTimeFieldType},
	{Name: "assigneddate", Type: bigquery.DateTimeFieldType},
	{Name: "appointmentscheduleddate", Type: bigquery.DateTimeFieldType},
	{Name: "chasedate", Type: bigquery.DateTimeFieldType},
	{Name: "signedupdate", Type: bigquery.DateTimeFieldType},
	{Name: "casecloseddate", Type: bigquery.DateTimeFieldType},
	{Name: "lostdate", Type: bigquery.DateTimeFieldType},
	{Name: "underreviewdate", Type: bigquery.DateTimeFieldType},
	{Name: "pendingsignupdate", Type: bigquery.DateTimeFieldType},
	{Name: "holddate", Type: bigquery.DateTimeFieldType},
	{Name: "intake_firstname", Type: bigquery.StringFieldType},
	{Name: "intake_lastname", Type: bigquery.StringFieldType},
	{Name: "intake_email", Type: bigquery.StringFieldType},
	{Name: "intake_code", Type: bigquery.StringFieldType},
	{Name: "paralegal_firstname", Type: bigquery.StringFieldType},
	{Name: "paralegal_lastname", Type: bigquery.StringFieldType},
	{Name: "paralegal_email", Type: bigquery.StringFieldType},
	{Name: "paralegal_code", Type: bigquery.StringFieldType},
	{Name: "investigator_firstname", Type: bigquery.StringFieldType},
	{Name: "investigator_lastname", Type: bigquery.StringFieldType},
	{Name: "investigator_email", Type: bigquery.StringFieldType},
	{Name: "investigator_code", Type: bigquery.StringFieldType},
	{Name: "attorney_firstname", Type: bigquery.StringFieldType},
	{Name: "attorney_lastname", Type: bigquery.StringFieldType},
	{Name: "attorney_email", Type: bigquery.StringFieldType},
	{Name: "attorney_code", Type: bigquery.StringFieldType},
	{Name: "creator_firstname", Type: bigquery.StringFieldType},
	{Name: "creator_lastname", Type: bigquery.StringFieldType},
	{Name: "creator_email", Type: bigquery.StringFieldType},
	{Name: "creator_code", Type: bigquery.StringFieldType},
	{Name: "phonecall_id", Type: bigquery.IntegerFieldType},
	{Name: "phonecall_callfrom", Type: bigquery.StringFieldType},
	{Name: "phonecall_callto", Type: bigquery.StringFieldType},
	{Name: "phonecall_callsid", Type: bigquery.StringFieldType},
	{Name: "phonecall_label", Type: bigquery.StringFieldType},
	{Name: "phonecall_recordingurl", Type: bigquery.StringFieldType},
	{Name: "phonecall_createddate", Type: bigquery.DateTimeFieldType},
}

// mutableColumns is the subset overwritten on merge when a lead already
// exists in production. Contact and demographic columns are absent on
// purpose: they are assumed immutable once a lead is created, while
// status, lifecycle dates, assigned personnel, and the phone-call block
// keep changing as the lead moves through intake.
var mutableColumns = []string{
	"status",
	"substatus",
	"rejecteddate",
	"referreddate",
	"assigneddate",
	"appointmentscheduleddate",
	"chasedate",
	"signedupdate",
	"casecloseddate",
	"lostdate",
	"underreviewdate",
	"pendingsignupdate",
	"holddate",
	"paralegal_firstname",
	"paralegal_lastname",
	"paralegal_email",
	"paralegal_code",
	"investigator_firstname",
	"investigator_lastname",
	"investigator_email",
	"investigator_code",
	"attorney_firstname",
	"attorney_lastname",
	"attorney_email",
	"attorney_code",
	"phonecall_id",
	"phonecall_callfrom",
	"phonecall_callto",
	"phonecall_callsid",
	"phonecall_label",
	"phonecall_recordingurl",
	"phonecall_createddate",
}
