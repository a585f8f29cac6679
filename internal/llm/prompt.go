package llm

import (
	"fmt"
	"strings"

	"github.com/docpipe/docpipe/constants"
)

const jsonTemplate = `You are a data structuring expert. Your task is to convert unstructured text into well-structured JSON data.

Guidelines:
1. Identify key entities, relationships, and data points in the text
2. Create a logical JSON structure with appropriate keys
3. Use consistent data types (strings, numbers, booleans, arrays, objects)
4. Handle missing or unclear data gracefully
5. Preserve important information while organizing it logically
6. Use descriptive key names that clearly indicate the data content

Output only valid JSON without any additional text or explanations.`

const csvTemplate = `You are a data structuring expert. Your task is to convert unstructured text into CSV format.

Guidelines:
1. Identify the main data entities and their attributes
2. Create appropriate column headers
3. Extract data rows from the text
4. Use commas to separate values
5. Handle missing data with empty fields
6. Ensure the CSV is properly formatted

Output the CSV data with headers on the first line, followed by data rows.`

const tableTemplate = `You are a data structuring expert. Your task is to convert unstructured text into a structured table format.

Guidelines:
1. Identify the main data entities and their attributes
2. Create a clear table structure with headers
3. Extract and organize the data into rows and columns
4. Use consistent formatting
5. Handle missing data appropriately

Output a well-formatted table with clear headers and organized data.`

// BuildStructurePrompt composes the structuring instruction: the override
// (when present) or the shape template, the literal document text, and a
// closing directive naming the target shape in upper case. Pure function.
func BuildStructurePrompt(req ProcessingRequest) string {
	base := strings.TrimSpace(req.OverrideInstructions)
	if base == "" {
		base = templateFor(req.TargetShape)
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nRaw Text to Structure:\n")
	b.WriteString(req.DocumentText)
	b.WriteString("\n\nPlease analyze the above text and convert it to structured data in ")
	b.WriteString(strings.ToUpper(string(req.TargetShape)))
	b.WriteString(" format.\nEnsure the output is valid and well-formatted.")
	return b.String()
}

// templateFor selects the built-in template; unknown shapes fall back to JSON.
func templateFor(shape constants.OutputShape) string {
	switch shape {
	case constants.ShapeCSV:
		return csvTemplate
	case constants.ShapeTable:
		return tableTemplate
	default:
		return jsonTemplate
	}
}

// BuildEntityPrompt asks for the fixed entity skeleton as JSON.
func BuildEntityPrompt(text string) string {
	var b strings.Builder
	b.WriteString(`Extract named entities from the following text and return them as JSON with the following structure:
{
    "persons": ["list of person names"],
    "organizations": ["list of organization names"],
    "locations": ["list of location names"],
    "dates": ["list of dates"],
    "numbers": ["list of important numbers"],
    "emails": ["list of email addresses"],
    "phones": ["list of phone numbers"]
}

Text to analyze:
`)
	b.WriteString(text)
	b.WriteString("\n\nReturn only valid JSON.")
	return b.String()
}

// BuildClassificationPrompt asks for document type, confidence, topics,
// language and sentiment as JSON.
func BuildClassificationPrompt(text string) string {
	var b strings.Builder
	b.WriteString(`Classify the following document and return the result as JSON:
{
    "document_type": "type of document (e.g., invoice, report, email, form, etc.)",
    "confidence": "confidence level (0-1)",
    "key_topics": ["list of main topics"],
    "language": "detected language",
    "sentiment": "overall sentiment (positive, negative, neutral)"
}

Document text:
`)
	b.WriteString(text)
	b.WriteString("\n\nReturn only valid JSON.")
	return b.String()
}

// BuildSummaryPrompt asks for a bounded freeform summary.
func BuildSummaryPrompt(text string, maxWords int) string {
	return fmt.Sprintf("Create a concise summary of the following text in %d words or less:\n\n%s\n\nSummary:", maxWords, text)
}
