package servitor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TaskTypes lists the task types the executor understands.
var TaskTypes = []string{"file_operation", "reminder", "data_processing", "log"}

// TaskResult reports one task execution.
type TaskResult struct {
	Task    string
	Success bool
	Message string
	Err     error
}

// Executor runs a servitor's tasks.
type Executor struct {
	sv *Servitor
}

// NewExecutor builds an executor for the servitor.
func NewExecutor(sv *Servitor) *Executor {
	return &Executor{sv: sv}
}

// Execute runs one task and updates its counters.
func (e *Executor) Execute(task *Task) TaskResult {
	res := e.run(task)
	res.Task = task.Name
	task.ExecutionCount++
	now := time.Now()
	task.LastExecuted = &now
	if res.Success {
		task.SuccessCount++
	}
	return res
}

// ExecuteAll runs every task in order.
func (e *Executor) ExecuteAll() []TaskResult {
	results := make([]TaskResult, 0, len(e.sv.Tasks))
	for i := range e.sv.Tasks {
		results = append(results, e.Execute(&e.sv.Tasks[i]))
	}
	return results
}

// ExecuteByName runs the named task.
func (e *Executor) ExecuteByName(name string) (TaskResult, error) {
	for i := range e.sv.Tasks {
		if e.sv.Tasks[i].Name == name {
			return e.Execute(&e.sv.Tasks[i]), nil
		}
	}
	return TaskResult{}, fmt.Errorf("task %q not found on %s", name, e.sv.Name)
}

func (e *Executor) run(task *Task) TaskResult {
	switch strings.ToLower(task.Type) {
	case "file_operation":
		return e.fileOperation(task)
	case "reminder":
		msg := task.Parameters["message"]
		if msg == "" {
			msg = "Reminder from " + e.sv.Name
		}
		return TaskResult{Success: true, Message: msg}
	case "data_processing":
		return e.dataProcessing(task)
	case "log":
		return e.logEntry(task)
	}
	return TaskResult{Err: fmt.Errorf("unknown task type %q", task.Type)}
}

func (e *Executor) fileOperation(task *Task) TaskResult {
	operation := task.Parameters["operation"]
	if operation == "" {
		operation = "create"
	}
	path := task.Parameters["file_path"]
	if path == "" {
		return TaskResult{Err: fmt.Errorf("file_operation: no file_path parameter")}
	}
	content := task.Parameters["content"]

	switch operation {
	case "create":
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return TaskResult{Err: err}
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return TaskResult{Err: err}
		}
		return TaskResult{Success: true, Message: "File created: " + path}
	case "append":
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return TaskResult{Err: err}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return TaskResult{Err: err}
		}
		if _, err := f.WriteString(content); err != nil {
			f.Close()
			return TaskResult{Err: err}
		}
		if err := f.Close(); err != nil {
			return TaskResult{Err: err}
		}
		return TaskResult{Success: true, Message: "Content appended to: " + path}
	case "delete":
		if err := os.Remove(path); err != nil {
			return TaskResult{Err: err}
		}
		return TaskResult{Success: true, Message: "File deleted: " + path}
	case "read":
		data, err := os.ReadFile(path)
		if err != nil {
			return TaskResult{Err: err}
		}
		return TaskResult{Success: true, Message: string(data)}
	}
	return TaskResult{Err: fmt.Errorf("file_operation: unknown operation %q", operation)}
}

func (e *Executor) dataProcessing(task *Task) TaskResult {
	operation := task.Parameters["operation"]
	if operation == "" {
		operation = "count"
	}
	data := task.Parameters["data"]

	switch operation {
	case "count":
		return TaskResult{Success: true, Message: fmt.Sprintf("%d", len(strings.Fields(data)))}
	case "transform":
		switch task.Parameters["transform_type"] {
		case "lower":
			return TaskResult{Success: true, Message: strings.ToLower(data)}
		default:
			return TaskResult{Success: true, Message: strings.ToUpper(data)}
		}
	}
	return TaskResult{Err: fmt.Errorf("data_processing: unknown operation %q", operation)}
}

func (e *Executor) logEntry(task *Task) TaskResult {
	msg := task.Parameters["message"]
	if msg == "" {
		msg = "Log entry from " + e.sv.Name
	}
	if logFile := task.Parameters["log_file"]; logFile != "" {
		entry := fmt.Sprintf("[%s] %s: %s\n", time.Now().Format(time.RFC3339), e.sv.Name, msg)
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return TaskResult{Err: err}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return TaskResult{Err: err}
		}
		if _, err := f.WriteString(entry); err != nil {
			f.Close()
			return TaskResult{Err: err}
		}
		if err := f.Close(); err != nil {
			return TaskResult{Err: err}
		}
	}
	return TaskResult{Success: true, Message: msg}
}
