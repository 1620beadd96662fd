package flow

// Source tags which entity a field reference resolves against.
type Source int

const (
	SourceParticipant Source = iota
	SourceParticipation
	SourceComputed
)

// Field names a typed field on a source entity, or a computed value.
type Field string

const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldTerms    Field = "terms"
	FieldComplete Field = "complete"

	FieldPriorityNumber Field = "priority_number"
	FieldPrizeName      Field = "prize"
	FieldSerialNumber   Field = "serial_number"

	// Computed values resolved at dispatch time.
	FieldCurrentParticipations Field = "current_participations"
	FieldPrizeAmount           Field = "prize_amount"
	FieldPrizeURL              Field = "prize_url"
	FieldPrizeCode             Field = "prize_code"
)

// FieldRef declares which field a transition reads for an outbound
// template argument or writes from inbound content. The manager
// interprets the reference; transitions never touch entities directly.
type FieldRef struct {
	Source Source
	Field  Field
}

func Ref(source Source, field Field) FieldRef {
	return FieldRef{Source: source, Field: field}
}
