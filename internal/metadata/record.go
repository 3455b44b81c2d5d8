package metadata

// NotFound is the placeholder the model is instructed to return for fields
// it cannot determine. Downstream naming maps it to "Unknown".
const NotFound = "Not found"

// errorPlaceholder fills the bibliographic fields of error-branch records.
const errorPlaceholder = "Error"

// Record is the normalized result of one extraction attempt for one PDF.
// Exactly one branch is meaningful: either the bibliographic fields carry
// real data, or Error is set and they carry placeholders.
type Record struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	Year           string `json:"year"`
	SourceFilename string `json:"source_filename"`

	// Set only on the failure branches.
	Error       string `json:"error,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
	ParseError  string `json:"parse_error,omitempty"`

	// Filled in after placement.
	OutputFilename string     `json:"output_filename,omitempty"`
	CopyInfo       *Placement `json:"copy_info,omitempty"`
}

// Failed reports whether the record is on the error branch.
func (r Record) Failed() bool { return r.Error != "" }

// ErrorRecord builds an error-branch record for filename.
func ErrorRecord(message, filename string) Record {
	return Record{
		Title:          errorPlaceholder,
		Author:         errorPlaceholder,
		Year:           errorPlaceholder,
		SourceFilename: filename,
		Error:          message,
	}
}

// Placement describes the outcome of copying one source PDF into the
// output directory. Copied implies OutputFilename is set and the
// destination exists; otherwise Error explains the failure.
type Placement struct {
	Copied         bool   `json:"copied"`
	SourceFilename string `json:"source_filename"`
	OutputFilename string `json:"output_filename,omitempty"`
	SourcePath     string `json:"source_path,omitempty"`
	OutputPath     string `json:"output_path,omitempty"`
	Error          string `json:"error,omitempty"`
}
