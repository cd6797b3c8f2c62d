package decompose

import (
	"fmt"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
)

// RawMessageField is the schema field holding the unparsed log line.
const RawMessageField = "general_information.raw_message"

// PortField is the schema field whose set-membership clauses list ports.
const PortField = "target.host.network_port.value"

// FieldType is a LogRhythm filter type.
type FieldType struct {
	Name string
	Code int
}

// typeNames maps LogRhythm schema fields and the legacy aliases to filter
// type names. Names absent here are looked up as type names directly.
var typeNames = map[string]string{
	"origin.account.name":                      "User (Origin)",
	RawMessageField:                            "Message",
	"object.process.command_line":              "Command",
	"object.script.command_line":               "Command",
	"object.registry_object.path":              "Object",
	"object.registry_object.key":               "Object",
	"object.resource.name":                     "Object",
	"object.file.name":                         "Object",
	"TargetFilename":                           "Object",
	"target.host.ip_address.value":             "Address",
	"target.host.name":                         "DHost",
	"target.host.domain":                       "DHost",
	"action.network.byte_information.received": "BytesIn",
	"action.network.byte_information.sent":     "BytesOut",
	"action.network.byte_information.total":    "BytesInOut",
	"unattributed.host.mac_address":            "MAC",
	"action.network.http_method":               "SIP",
	"origin.url.path":                          "URL",
	"action.dns.query":                         "URL",
	"origin.host.domain":                       "SHostName",
	"object.process.name":                      "Application",
	"action.duration":                          "Duration",
	"process.parent_process.path":              "ParentProcessPath",
	"object.process.parent_process.name":       "ParentProcessName",
	PortField:                                  "Port",
	"general_information.log_source.type_name": "MsgSourceType",
}

// typeAliases are display names that share the code of another type.
var typeAliases = map[string]string{
	"User (Origin)": "Login",
}

var filterTypes = map[string]int{
	"IDMGroupForAccount":     53,
	"Address":                44,
	"Amount":                 64,
	"Application":            97,
	"MsgClass":               10,
	"Command":                112,
	"CommonEvent":            11,
	"Direction":              2,
	"Duration":               62,
	"Group":                  38,
	"BytesIn":                58,
	"BytesOut":               59,
	"BytesInOut":             95,
	"DHost":                  100,
	"Host":                   98,
	"SHost":                  99,
	"ItemsIn":                60,
	"ItemsOut":               61,
	"ItemsInOut":             96,
	"DHostName":              25,
	"HostName":               23,
	"SHostName":              24,
	"KnownService":           16,
	"DInterface":             108,
	"Interface":              133,
	"SInterface":             107,
	"DIP":                    19,
	"IP":                     17,
	"SIP":                    18,
	"DIPRange":               22,
	"IPRange":                20,
	"SIPRange":               21,
	"KnownDHost":             15,
	"KnownHost":              13,
	"KnownSHost":             14,
	"Location":               87,
	"SLocation":              85,
	"DLocation":              86,
	"MsgSource":              7,
	"Entity":                 6,
	"RootEntity":             136,
	"MsgSourceType":          9,
	"DMAC":                   104,
	"MAC":                    132,
	"SMAC":                   103,
	"Message":                35,
	"MPERule":                12,
	"DNATIP":                 106,
	"NATIP":                  126,
	"SNATIP":                 105,
	"DNATIPRange":            125,
	"NATIPRange":             127,
	"SNATIPRange":            124,
	"DNATPort":               115,
	"NATPort":                130,
	"SNATPort":               114,
	"DNATPortRange":          129,
	"NATPortRange":           131,
	"SNATPortRange":          128,
	"DNetwork":               50,
	"Network":                51,
	"SNetwork":               49,
	"Object":                 34,
	"ObjectName":             113,
	"Login":                  29,
	"IDMGroupForLogin":       52,
	"Priority":               3,
	"Process":                41,
	"PID":                    109,
	"Protocol":               28,
	"Quantity":               63,
	"Rate":                   65,
	"Recipient":              32,
	"Sender":                 31,
	"Session":                40,
	"Severity":               110,
	"Size":                   66,
	"Subject":                33,
	"DPort":                  27,
	"Port":                   45,
	"SPort":                  26,
	"DPortRange":             47,
	"PortRange":              48,
	"SPortRange":             46,
	"URL":                    42,
	"Account":                30,
	"User":                   43,
	"IDMGroupForUser":        54,
	"VendorMsgID":            37,
	"Version":                111,
	"SZone":                  93,
	"DZone":                  94,
	"Domain":                 39,
	"DomainOrigin":           137,
	"Hash":                   138,
	"Policy":                 139,
	"VendorInfo":             140,
	"Result":                 141,
	"ObjectType":             142,
	"CVE":                    143,
	"UserAgent":              144,
	"ParentProcessId":        145,
	"ParentProcessName":      146,
	"ParentProcessPath":      147,
	"SerialNumber":           148,
	"Reason":                 149,
	"Status":                 150,
	"ThreatId":               151,
	"ThreatName":             152,
	"SessionType":            153,
	"Action":                 154,
	"ResponseCode":           155,
	"Identity":               160,
	"UserOriginIdentityID":   167,
	"UserImpactedIdentityID": 168,
	"SenderIdentityID":       169,
	"RecipientIdentityID":    170,
}

// FilterTypeCode looks a type name up. ok is false for unknown names.
func FilterTypeCode(name string) (code int, ok bool) {
	if alias, found := typeAliases[name]; found {
		name = alias
	}
	code, ok = filterTypes[name]
	return code, ok
}

// LookupField resolves a schema field or alias to its filter type. A miss is
// an unknown field type fault.
func LookupField(field string) (FieldType, error) {
	name, ok := typeNames[field]
	if !ok {
		name = field
	}

	code, ok := FilterTypeCode(name)
	if !ok {
		return FieldType{}, fault.New(fault.UnknownFieldTypeCode, fmt.Sprintf("no filter type for field `%s`", field)).WithMetadata(map[string]any{
			"field": field,
		})
	}

	return FieldType{Name: name, Code: code}, nil
}
