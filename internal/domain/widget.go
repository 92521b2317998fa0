package domain

import (
	"fmt"
	"strings"
)

type WidgetType string

const (
	WidgetStickyNote       WidgetType = "sticky-note"
	WidgetTodo             WidgetType = "todo"
	WidgetCalendar         WidgetType = "calendar"
	WidgetKanban           WidgetType = "kanban"
	WidgetIframe           WidgetType = "iframe"
	WidgetPomodoro         WidgetType = "pomodoro"
	WidgetTimeTracker      WidgetType = "time-tracker"
	WidgetHabitTracker     WidgetType = "habit-tracker"
	WidgetMindMap          WidgetType = "mind-map"
	WidgetQuickLinks       WidgetType = "quick-links"
	WidgetQuickCapture     WidgetType = "quick-capture"
	WidgetEisenhowerMatrix WidgetType = "eisenhower-matrix"
	WidgetCalculator       WidgetType = "calculator"
	WidgetBreakReminder    WidgetType = "break-reminder"
	WidgetDiagram          WidgetType = "diagram"
	WidgetSpreadsheet      WidgetType = "spreadsheet"
)

var widgetTypes = []WidgetType{
	WidgetStickyNote,
	WidgetTodo,
	WidgetCalendar,
	WidgetKanban,
	WidgetIframe,
	WidgetPomodoro,
	WidgetTimeTracker,
	WidgetHabitTracker,
	WidgetMindMap,
	WidgetQuickLinks,
	WidgetQuickCapture,
	WidgetEisenhowerMatrix,
	WidgetCalculator,
	WidgetBreakReminder,
	WidgetDiagram,
	WidgetSpreadsheet,
}

func WidgetTypes() []WidgetType {
	out := make([]WidgetType, len(widgetTypes))
	copy(out, widgetTypes)
	return out
}

func (t WidgetType) Valid() bool {
	for _, known := range widgetTypes {
		if t == known {
			return true
		}
	}

	return false
}

func ParseWidgetType(raw string) (WidgetType, error) {
	kind := WidgetType(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownWidgetType, raw)
	}

	return kind, nil
}

// WindowTemplate is the geometry and seed content a freshly opened widget gets.
type WindowTemplate struct {
	Title    string
	Position Position
	Size     Size
	Content  Content
}

// TemplateFor returns the default window for kind. Every call builds fresh
// content so callers may keep the result.
func TemplateFor(kind WidgetType) WindowTemplate {
	switch kind {
	case WidgetStickyNote:
		return WindowTemplate{
			Title:    "Sticky Note",
			Position: Position{X: 100, Y: 100},
			Size:     Size{W: 300, H: 300},
			Content:  Content{"text": "", "color": "yellow"},
		}
	case WidgetTodo:
		return WindowTemplate{
			Title:    "Todo List",
			Position: Position{X: 150, Y: 150},
			Size:     Size{W: 400, H: 500},
			Content:  Content{"todos": []any{}},
		}
	case WidgetKanban:
		return WindowTemplate{
			Title:    "Kanban Board",
			Position: Position{X: 200, Y: 100},
			Size:     Size{W: 900, H: 600},
			Content: Content{"columns": []any{
				map[string]any{"id": "todo", "title": "To Do", "cards": []any{}},
				map[string]any{"id": "in-progress", "title": "In Progress", "cards": []any{}},
				map[string]any{"id": "done", "title": "Done", "cards": []any{}},
			}},
		}
	case WidgetIframe:
		return WindowTemplate{
			Title:    "Web Browser",
			Position: Position{X: 250, Y: 150},
			Size:     Size{W: 800, H: 600},
			Content:  Content{"url": ""},
		}
	case WidgetPomodoro:
		return WindowTemplate{
			Title:    "Pomodoro Timer",
			Position: Position{X: 300, Y: 200},
			Size:     Size{W: 400, H: 550},
			Content: Content{
				"workTime":           25,
				"shortBreakTime":     5,
				"longBreakTime":      15,
				"completedPomodoros": 0,
			},
		}
	case WidgetCalendar:
		return WindowTemplate{
			Title:    "Calendar",
			Position: Position{X: 150, Y: 100},
			Size:     Size{W: 600, H: 700},
			Content:  Content{"events": []any{}},
		}
	case WidgetTimeTracker:
		return WindowTemplate{
			Title:    "Time Tracker",
			Position: Position{X: 200, Y: 150},
			Size:     Size{W: 400, H: 600},
			Content:  Content{"sessions": []any{}},
		}
	case WidgetHabitTracker:
		return WindowTemplate{
			Title:    "Habit Tracker",
			Position: Position{X: 250, Y: 100},
			Size:     Size{W: 500, H: 600},
			Content:  Content{"habits": []any{}},
		}
	case WidgetMindMap:
		return WindowTemplate{
			Title:    "Mind Map",
			Position: Position{X: 150, Y: 100},
			Size:     Size{W: 700, H: 500},
			Content:  Content{"nodes": []any{}},
		}
	case WidgetQuickLinks:
		return WindowTemplate{
			Title:    "Quick Links",
			Position: Position{X: 200, Y: 150},
			Size:     Size{W: 400, H: 500},
			Content:  Content{"links": []any{}},
		}
	case WidgetQuickCapture:
		return WindowTemplate{
			Title:    "Quick Capture",
			Position: Position{X: 250, Y: 100},
			Size:     Size{W: 400, H: 500},
			Content:  Content{"items": []any{}},
		}
	case WidgetEisenhowerMatrix:
		return WindowTemplate{
			Title:    "Eisenhower Matrix",
			Position: Position{X: 150, Y: 100},
			Size:     Size{W: 700, H: 600},
			Content:  Content{"tasks": []any{}},
		}
	case WidgetCalculator:
		return WindowTemplate{
			Title:    "Calculator",
			Position: Position{X: 300, Y: 200},
			Size:     Size{W: 350, H: 500},
			Content:  Content{"history": []any{}},
		}
	case WidgetBreakReminder:
		return WindowTemplate{
			Title:    "Break Reminder",
			Position: Position{X: 200, Y: 150},
			Size:     Size{W: 400, H: 550},
			Content:  Content{},
		}
	case WidgetDiagram:
		return WindowTemplate{
			Title:    "Diagram",
			Position: Position{X: 150, Y: 100},
			Size:     Size{W: 700, H: 600},
			Content:  Content{"shapes": []any{}},
		}
	case WidgetSpreadsheet:
		return WindowTemplate{
			Title:    "Spreadsheet",
			Position: Position{X: 150, Y: 100},
			Size:     Size{W: 800, H: 600},
			Content:  Content{"cells": map[string]any{}},
		}
	}

	title := string(kind)
	if title == "" {
		title = "Window"
	}

	return WindowTemplate{
		Title:    title,
		Position: DefaultRestorePosition,
		Size:     DefaultRestoreSize,
		Content:  Content{},
	}
}

// NormalizeURL adds an https scheme when the address has none.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}

	return "https://" + trimmed
}
