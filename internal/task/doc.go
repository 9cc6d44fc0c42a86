// Package task defines the task bucket data model, its JSON encoding, and
// the diagnostic validation run when a bucket is loaded.
//
// The task bucket file (task-bucket.json) has the following shape:
//
//	{
//	  "tasks": [
//	    {
//	      "id": 1,
//	      "description": "Write report",
//	      "project": "proj-a",
//	      "status": "TODO",
//	      "created": "2026-01-02",
//	      "priority": "medium",
//	      "deadline": "2026-01-10",
//	      "task_type": "work",
//	      "time_spent_hours": 2.5,
//	      "time_logs": [
//	        {"date": "2026-01-03", "hours": 2.5, "description": "draft", "logged_at": "2026-01-03T17:20:11"}
//	      ],
//	      "tags": ["writing"],
//	      "recurrence_days": [],
//	      "streak_count": 0
//	    }
//	  ],
//	  "next_id": 2,
//	  "last_updated": "2026-01-03T17:20:11.482113"
//	}
//
// # Validation
//
// Validation is diagnostic. A bucket that fails validation is still decoded
// and returned; the caller logs the findings. Two passes run:
//
//  1. JSON Schema (embedded bucket.schema.json): required fields, types,
//     enumerations, non-negative numbers.
//  2. Format checks: calendar dates (YYYY-MM-DD), times of day (HH:MM) and
//     ISO 8601 timestamps, plus unknown keys reported as warnings.
//
// # Dates
//
// Calendar dates are stored as canonical YYYY-MM-DD strings so that plain
// string comparison orders them chronologically.
//
// # File Format
//
// Encoded buckets use 2-space indentation and a trailing newline.
package task
