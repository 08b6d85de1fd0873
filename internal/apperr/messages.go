package apperr

// Localized user-facing messages.
const (
	MsgInternal       = "सर्वर त्रुटि, कृपया पुनः प्रयास करें"
	MsgUnknown        = "अज्ञात त्रुटि"
	MsgInvalidRequest = "अमान्य अनुरोध"
	MsgLoginRequired  = "कृपया लॉगिन करें"
	MsgRateLimited    = "बहुत अधिक प्रयास, कृपया कुछ देर बाद पुनः प्रयास करें"

	MsgProjectNameRequired    = "प्रोजेक्ट नाम आवश्यक है"
	MsgMobileRequired         = "मोबाइल नंबर आवश्यक है"
	MsgMobileInvalid          = "कृपया एक वैध 10-अंकीय मोबाइल नंबर दर्ज करें"
	MsgUserIDRequired         = "यूजर ID आवश्यक है"
	MsgProjectNameExists      = "यह प्रोजेक्ट नाम पहले से मौजूद है"
	MsgProjectMobileExists    = "यह मोबाइल नंबर पहले से मौजूद है"
	MsgUserMissing            = "यूजर मौजूद नहीं है"
	MsgProjectNotFound        = "प्रोजेक्ट नहीं मिला"
	MsgProjectDeleted         = "प्रोजेक्ट सफलतापूर्वक डिलीट किया गया"
	MsgRaiyatNameRequired     = "रैयत नाम आवश्यक है"
	MsgRaiyatExists           = "यह रैयत नाम पहले से मौजूद है"
	MsgRaiyatNotFound         = "रैयत नहीं मिला"
	MsgRaiyatDeleted          = "रैयत सफलतापूर्वक डिलीट किया गया"
	MsgKhesraRequired         = "खेसरा नंबर आवश्यक है"
	MsgRecordNotFound         = "रिकॉर्ड नहीं मिला"
	MsgRecordInvalid          = "अमान्य रिकॉर्ड डेटा"
	MsgRecordDeleted          = "रिकॉर्ड सफलतापूर्वक डिलीट किया गया"
	MsgImportEmpty            = "इम्पोर्ट के लिए कोई रिकॉर्ड नहीं मिला"
	MsgImportFileRequired     = "कृपया एक CSV फ़ाइल अपलोड करें"
	MsgImportFileInvalid      = "फ़ाइल पढ़ी नहीं जा सकी"
	MsgShareInvalid           = "अमान्य शेयर लिंक या लिंक एक्सपायर हो गया है"
	MsgPasswordRequired       = "पासवर्ड आवश्यक है"
	MsgPasswordWrong          = "गलत पासवर्ड"
	MsgShareAccessRequired    = "कृपया पहले पासवर्ड सत्यापित करें"
	MsgShareRevoked           = "शेयरिंग बंद कर दी गई है"
	MsgTotalAmountInvalid     = "कुल राशि शून्य से अधिक होनी चाहिए"
	MsgReceivedNegative       = "प्राप्त राशि ऋणात्मक नहीं हो सकती"
	MsgReceivedExceedsTotal   = "प्राप्त राशि कुल राशि से अधिक नहीं हो सकती"
	MsgAmountTooLarge         = "राशि बहुत बड़ी है"
	MsgAmountPrecision        = "राशि में अधिकतम दो दशमलव स्थान हो सकते हैं"
	MsgPaymentTypeInvalid     = "अमान्य भुगतान प्रकार"
	MsgPaymentDateInvalid     = "अमान्य भुगतान तिथि"
	MsgPaymentNotFound        = "भुगतान नहीं मिला"
	MsgPaymentDeleted         = "भुगतान सफलतापूर्वक डिलीट किया गया"
	MsgProjectIDRequired      = "प्रोजेक्ट ID आवश्यक है"
	MsgEmailRequired          = "ईमेल आवश्यक है"
	MsgEmailExists            = "यह ईमेल पहले से पंजीकृत है"
	MsgLoginFailed            = "गलत ईमेल या पासवर्ड"
	MsgUserNotFound           = "यूजर नहीं मिला"
	MsgPasswordTooShort       = "पासवर्ड कम से कम 6 अक्षरों का होना चाहिए"
	MsgNameRequired           = "नाम आवश्यक है"
	MsgAccountDeleted         = "अकाउंट और सभी संबंधित डेटा सफलतापूर्वक डिलीट किया गया"
	MsgAccountDeleteForbidden = "आप केवल अपना अकाउंट डिलीट कर सकते हैं"

	MsgProjectCreateFailed = "प्रोजेक्ट बनाने में विफल"
	MsgProjectsLoadFailed  = "प्रोजेक्ट्स लोड करने में विफल"
	MsgProjectLoadFailed   = "प्रोजेक्ट एक्सेस करने में विफल"
	MsgProjectUpdateFailed = "प्रोजेक्ट अपडेट करने में विफल"
	MsgProjectDeleteFailed = "प्रोजेक्ट डिलीट करने में विफल"
	MsgRaiyatAddFailed     = "रैयत नाम जोड़ने में विफल"
	MsgRaiyatDeleteFailed  = "रैयत डिलीट करने में विफल"
	MsgRecordSaveFailed    = "रिकॉर्ड सेव करने में विफल"
	MsgRecordsLoadFailed   = "रिकॉर्ड लोड करने में विफल"
	MsgImportFailed        = "रिकॉर्ड इंपोर्ट करने में विफल"
	MsgExportFailed        = "रिकॉर्ड एक्सपोर्ट करने में विफल"
	MsgShareCreateFailed   = "शेयर लिंक बनाने में विफल"
	MsgShareRevokeFailed   = "शेयरिंग बंद करने में विफल"
	MsgShareVerifyFailed   = "पासवर्ड सत्यापन में विफल"
	MsgOverviewLoadFailed  = "ओवरव्यू लोड करने में विफल"
	MsgPaymentsLoadFailed  = "भुगतान लोड करने में विफल"
	MsgPaymentSaveFailed   = "भुगतान सेव करने में विफल"
	MsgPaymentDeleteFailed = "भुगतान डिलीट करने में विफल"
	MsgAccountDeleteFailed = "अकाउंट डिलीट करने में विफल, कृपया पुनः प्रयास करें"
	MsgRegisterFailed      = "पंजीकरण में विफल"
)
