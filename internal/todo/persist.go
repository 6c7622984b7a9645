package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const dataSchemaJSON = `{
  "title": "noter data record",
  "type": "object"
}`

const taskSchemaJSON = `{
  "title": "noter task entry",
  "oneOf": [
    {"type": "string"},
    {
      "type": "object",
      "required": ["timestamp"],
      "properties": {
        "timestamp": {"type": "string"},
        "completed": {"type": "boolean"},
        "priority": {"type": "integer", "enum": [0, 1, 2]}
      }
    }
  ]
}`

const textListSchemaJSON = `{
  "title": "noter text list record",
  "type": "array",
  "items": {"type": "string"}
}`

var (
	dataSchema     = mustCompileSchema("mem://noter/data.schema.json", dataSchemaJSON)
	taskSchema     = mustCompileSchema("mem://noter/task.schema.json", taskSchemaJSON)
	textListSchema = mustCompileSchema("mem://noter/text-list.schema.json", textListSchemaJSON)
)

func mustCompileSchema(url, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", url, err))
	}
	return compiler.MustCompile(url)
}

// validateRecord parses raw as JSON and checks it against schema.
func validateRecord(key, raw string, schema *jsonschema.Schema) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return &ValidationError{Key: key, Err: fmt.Errorf("parse: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaError(key, err)
	}
	return nil
}

// schemaError reduces a schema failure to its first leaf cause.
func schemaError(key string, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Key: key, Err: err}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Key:  key,
		Path: jsonPointerToPath(ve.InstanceLocation),
		Err:  errors.New(ve.Message),
	}
}

// decodeData reads a data record. Legacy string values become incomplete,
// low-priority tasks with that timestamp. A record that is not a JSON
// object fails as a whole; entries that are invalid on their own are
// skipped and reported in skipped.
func decodeData(raw string) (tasks Collection, skipped []error, err error) {
	if err := validateRecord(KeyData, raw, dataSchema); err != nil {
		return nil, nil, err
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, nil, &ValidationError{Key: KeyData, Err: err}
	}

	tasks = make(Collection, len(entries))
	for _, text := range sortedEntryKeys(entries) {
		task, err := decodeTask(text, entries[text])
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		tasks[text] = task
	}
	return tasks, skipped, nil
}

// decodeTask validates and reads one data entry.
func decodeTask(text string, value json.RawMessage) (Task, error) {
	if strings.TrimSpace(text) == "" {
		return Task{}, &ValidationError{Key: KeyData, Path: text, Err: errors.New("blank task text")}
	}
	var doc interface{}
	if err := json.Unmarshal(value, &doc); err != nil {
		return Task{}, &ValidationError{Key: KeyData, Path: text, Err: err}
	}
	if err := taskSchema.Validate(doc); err != nil {
		ve, ok := schemaError(KeyData, err).(*ValidationError)
		if !ok {
			return Task{}, err
		}
		ve.Path = joinPath(text, ve.Path)
		return Task{}, ve
	}

	task := Task{Text: text}
	if len(value) > 0 && value[0] == '"' {
		if err := json.Unmarshal(value, &task.Timestamp); err != nil {
			return Task{}, &ValidationError{Key: KeyData, Path: text, Err: err}
		}
	} else if err := json.Unmarshal(value, &task); err != nil {
		return Task{}, &ValidationError{Key: KeyData, Path: text, Err: err}
	}
	task.Text = text
	return task, nil
}

func joinPath(base, rest string) string {
	switch {
	case rest == "":
		return base
	case strings.HasPrefix(rest, "["):
		return base + rest
	default:
		return base + "." + rest
	}
}

func sortedEntryKeys(entries map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeTextList reads a suggestions or deletedTasks record.
func decodeTextList(key, raw string) (*SuggestionSet, error) {
	if err := validateRecord(key, raw, textListSchema); err != nil {
		return nil, err
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &ValidationError{Key: key, Err: err}
	}
	return NewSuggestionSet(items...), nil
}

func encodeData(tasks Collection) (string, error) {
	if tasks == nil {
		tasks = Collection{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", KeyData, err)
	}
	return string(data), nil
}

func encodeTextList(key string, set *SuggestionSet) (string, error) {
	items := set.Items()
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", key, err)
	}
	return string(data), nil
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
