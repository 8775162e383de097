package dataset

// Source column labels as they appear in the published CSV header.
// The header row is fixed; lookups fall back to the empty string when a
// column is missing from a malformed row.
const (
	ColIdentifier  = "DNI"
	ColFullName    = "APELLIDOS Y NOMBRE"
	ColAdmission   = "ADMITIDO/EXCLUIDO"
	ColExamDay     = "DIA"
	ColExamSite    = "SEDE"
	ColExamRoom    = "AULA"
	ColGeneral     = "CONOCIMIENTOS GENERALES"
	ColLanguage    = "IDIOMA"
	ColAptitude    = "APTITUD"
	ColPersonality = "PERSONALIDAD"
	ColTotalPhase1 = "TOTAL FASE 1"
	ColProvisional = "APTO/NO APTO PROVISIONAL"
)

// Header returns the column set, in source order. Exports reuse it so a
// re-serialized view parses back with the same shape.
func Header() []string {
	return []string{
		ColIdentifier,
		ColFullName,
		ColAdmission,
		ColExamDay,
		ColExamSite,
		ColExamRoom,
		ColGeneral,
		ColLanguage,
		ColAptitude,
		ColPersonality,
		ColTotalPhase1,
		ColProvisional,
	}
}

// ProvisionalKind classifies the provisional pass/fail column into a closed
// set. Anything that is not the configured pass or fail label, including an
// empty cell, is ProvisionalUnknown ("not yet evaluated").
type ProvisionalKind int

const (
	ProvisionalUnknown ProvisionalKind = iota
	ProvisionalPass
	ProvisionalFail
)

// Provisional keeps the raw label next to its classification so filters and
// exports can round-trip the source text exactly.
type Provisional struct {
	Kind ProvisionalKind
	Raw  string
}

// ScoreFields holds the named phase-1 sub-scores as raw strings. Cells may
// be empty or carry a non-numeric sentinel; they are never validated here.
type ScoreFields struct {
	General     string
	Language    string
	Aptitude    string
	Personality string
}

// Candidate is one normalized exam-candidate record. The collection is
// built once per load and treated as read-only afterwards.
//
// Ordinal is the zero-based position of the row in the source file. It is
// the identity tag used by the ranking engine and by anything that needs a
// unique key: identifiers are not guaranteed unique in malformed input.
//
// Rank is derived by Rank(). Zero means absent, which is always the case
// when TotalRaw does not parse to a score.
type Candidate struct {
	Ordinal         int
	Identifier      string
	FullName        string
	AdmissionStatus string
	ExamDay         string
	ExamSite        string
	ExamRoom        string
	Scores          ScoreFields
	TotalRaw        string
	Provisional     Provisional
	Rank            int
}

// Record returns the candidate's field values in Header() order.
func (c Candidate) Record() []string {
	return []string{
		c.Identifier,
		c.FullName,
		c.AdmissionStatus,
		c.ExamDay,
		c.ExamSite,
		c.ExamRoom,
		c.Scores.General,
		c.Scores.Language,
		c.Scores.Aptitude,
		c.Scores.Personality,
		c.TotalRaw,
		c.Provisional.Raw,
	}
}

// Ranked reports whether the candidate carries a competitive rank.
func (c Candidate) Ranked() bool {
	return c.Rank > 0
}
