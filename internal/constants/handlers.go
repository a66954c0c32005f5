// Package constants provides shared constants used across the codebase.
package constants

// Multipart form fields
const (
	// FormFieldImages carries the uploaded images and archives.
	FormFieldImages = "images"

	// FormFieldImage is the single-file field used by the repeat forms.
	FormFieldImage = "image"

	// FormFieldFiles is accepted as an alternative to FormFieldImages.
	FormFieldFiles = "files"

	// FormFieldConfig carries the JSON layout configuration.
	FormFieldConfig = "config"

	// FormFieldLayout and FormFieldPageSettings are older names for the
	// configuration. FormFieldPageSettings holds only the page settings object.
	FormFieldLayout       = "layout"
	FormFieldPageSettings = "pageSettings"

	// FormFieldTitle names the document and its download file.
	FormFieldTitle = "title"
)

// Response headers
const (
	// HeaderLayoutWarnings is the number of warnings raised while planning.
	HeaderLayoutWarnings = "X-Layout-Warnings"

	// HeaderDocumentID identifies the generated document.
	HeaderDocumentID = "X-Document-ID"
)
