package payroll

// Validation messages shown to users, in Hebrew like the rest of the
// product surface. These are data on the validation result, not log
// output.
const (
	msgMissingService       = "חובה לבחור שירות"
	msgUnknownService       = "השירות שנבחר אינו קיים"
	msgInvalidSessions      = "יש להזין מספר מפגשים תקין (לפחות 1)"
	msgInvalidStudents      = "יש להזין מספר תלמידים תקין (לפחות 1)"
	msgSessionForGlobal     = "עובד גלובלי אינו מדווח מפגשים"
	msgUnexpectedHours      = "שדה שעות אינו רלוונטי לסוג דיווח זה"
	msgUnexpectedService    = "שדה שירות אינו רלוונטי לסוג דיווח זה"
	msgUnexpectedSessions   = "שדות מפגשים ותלמידים אינם רלוונטיים לסוג דיווח זה"
	msgUnexpectedAdjustment = "שדה סכום התאמה אינו רלוונטי לסוג דיווח זה"
	msgMissingHours         = "יש להזין מספר שעות"
	msgLeaveForNonGlobal    = "דיווח חופשה נתמך רק לעובד גלובלי"
	msgMissingAdjustment    = "יש להזין סכום התאמה"
	msgMissingRate          = "לא נמצא תעריף מתאים לתאריך זה"
	msgUnknownEntryType     = "סוג דיווח לא מוכר"
	msgUnknownEmployee      = "העובד לא נמצא במערכת"
	msgDuplicateRow         = "קיים דיווח כפול לאותו עובד, תאריך ושירות"
)
