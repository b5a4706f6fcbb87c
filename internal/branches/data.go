package branches

// directory is the fixed list of branches attendees can pick from.
var directory = []Branch{
	{Key: "אופקים", Label: "אופקים"},
	{Key: "אורה", Label: "אורה"},
	{Key: "אפרת", Label: "אפרת"},
	{Key: "אשדוד_1", Label: "אשדוד"},
	{Key: "אשדוד_2", Label: "אשדוד"},
	{Key: "בית_אשל", Label: "בית אשל", City: "ב״ש"},
	{Key: "בית_הכרם", Label: "בית הכרם", City: "ירושלים"},
	{Key: "בנימין", Label: "בנימין", City: "נתניה"},
	{Key: "ברקת", Label: "ברקת", City: "אילת"},
	{Key: "גבעת_אורנים", Label: "גבעת אורנים", City: "ירושלים"},
	{Key: "גבעת_זאב", Label: "גבעת זאב"},
	{Key: "גבעת_שפירא", Label: "גבעת שפירא", City: "ירושלים"},
	{Key: "גדרה", Label: "גדרה"},
	{Key: "דימונה_ממשית", Label: "דימונה (ממשית)"},
	{Key: "האורגים", Label: "האורגים", City: "ב״ש"},
	{Key: "המשחררים", Label: "המשחררים", City: "ב״ש"},
	{Key: "הספן", Label: "הספן", City: "אילת"},
	{Key: "הרצליה", Label: "הרצליה"},
	{Key: "וולפסון", Label: "וולפסון", City: "ירושלים"},
	{Key: "ויצמן", Label: "ויצמן", City: "נתניה"},
	{Key: "חפץ_חיים", Label: "חפץ חיים", City: "נתניה"},
	{Key: "טבריה", Label: "טבריה"},
	{Key: "יבנה", Label: "יבנה"},
	{Key: "יד_בנימין", Label: "יד בנימין"},
	{Key: "יוקנעם", Label: "יוקנעם"},
	{Key: "יעלים", Label: "יעלים", City: "ב״ש"},
	{Key: "כפר_עציון", Label: "כפר עציון"},
	{Key: "לב_יסמין", Label: "לב יסמין", City: "נתניה"},
	{Key: "להבים", Label: "להבים"},
	{Key: "מבצע_עבודה", Label: "מבצע עבודה", City: "ב״ש"},
	{Key: "מיתרים", Label: "מיתרים"},
	{Key: "מליבו", Label: "מליבו", City: "מודיעין"},
	{Key: "נהריה", Label: "נהריה"},
	{Key: "נווה_זאב", Label: "נווה זאב", City: "ב״ש"},
	{Key: "נווה_יעקוב", Label: "נווה יעקוב", City: "ירושלים"},
	{Key: "נוף_הגליל", Label: "נוף הגליל"},
	{Key: "נשר", Label: "נשר"},
	{Key: "עין_יהב", Label: "עין יהב"},
	{Key: "עפולה_עלית", Label: "עפולה עלית"},
	{Key: "ערד", Label: "ערד"},
	{Key: "פולג", Label: "פולג", City: "נתניה"},
	{Key: "פורת", Label: "פורת"},
	{Key: "פלמח", Label: "פלמ״ח", City: "ירושלים"},
	{Key: "פסגת_זאב", Label: "פסגת זאב", City: "ירושלים"},
	{Key: "פסגת_זאב_מזרח", Label: "פסגת זאב מזרח"},
	{Key: "פרץ_סנטר", Label: "פרץ סנטר", City: "דימונה"},
	{Key: "צופים", Label: "צופים"},
	{Key: "צור_הדסה", Label: "צור הדסה"},
	{Key: "צפת", Label: "צפת"},
	{Key: "קייזר", Label: "קייזר", City: "מודיעין"},
	{Key: "קצרין", Label: "קצרין"},
	{Key: "קריית_ים", Label: "קריית ים"},
	{Key: "קרית_אתא", Label: "קרית אתא"},
	{Key: "קרית_גת", Label: "קרית גת"},
	{Key: "קרית_יובל", Label: "קרית יובל", City: "ירושלים"},
	{Key: "קרית_מלאכי", Label: "קרית מלאכי"},
	{Key: "קרית_מנחם", Label: "קרית מנחם", City: "ירושלים"},
	{Key: "ראשונים", Label: "ראשונים", City: "ראשל״צ"},
	{Key: "ראשלצ_1", Label: "ראשל״צ"},
	{Key: "ראשלצ_2", Label: "ראשל״צ"},
	{Key: "רדק", Label: "רד״ק", City: "ב״ש"},
	{Key: "רחובות", Label: "רחובות"},
	{Key: "רחובות_קניון", Label: "רחובות קניון הנשיא"},
	{Key: "רמות", Label: "רמות", City: "ב״ש"},
	{Key: "רמת_גן", Label: "רמת גן"},
	{Key: "שדרות_ניצה", Label: "שדרות ניצה", City: "נתניה"},
	{Key: "שכונה_ט", Label: "שכונה ט׳", City: "ב״ש"},
	{Key: "שלומי", Label: "שלומי"},
	{Key: "תלפיות_מזרח", Label: "תלפיות מזרח", City: "ירושלים"},
}
