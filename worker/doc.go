// Package worker implements the transcription worker: a long-running
// consumer that subscribes to the audio topic, transcribes each chunk, and
// publishes the result to the transcript topic.
//
// A supervisory loop restarts the inner consume loop after any escaping
// failure, waiting a fixed backoff between attempts. Malformed messages
// are skipped rather than treated as loop failures, so one bad producer
// cannot force resubscription churn.
package worker
