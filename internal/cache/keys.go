package cache

func QuestionsKey(resumeID string) string { return "resume:" + resumeID + ":questions" }

func ReportKey(sessionID string) string { return "interview:" + sessionID + ":report" }
