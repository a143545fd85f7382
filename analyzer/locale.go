package analyzer

import (
	"fmt"
	"strings"
)

// DefaultLanguage is used whenever a language code is empty or unsupported.
const DefaultLanguage = "en"

// locale is the fixed set of strings for one output language.
type locale struct {
	// suggestion is a format string taking the topic text.
	suggestion string
	complete   []string
	incomplete []string

	summaryTooShort string
	summaryPartial  string
	summaryCovered  string

	// improvement is appended to the English improved answer; empty for English.
	improvement string
}

var locales = map[string]locale{
	"en": {
		suggestion: "Please give a proper, detailed answer for: '%s'. Provide explanation and an example.",
		complete: []string{
			"Your answer looks mostly complete. Could you provide a concrete real-world example?",
			"Could you break down the key ideas in 2–3 simple sentences?",
		},
		incomplete: []string{
			"Please expand on the missing points listed above.",
			"Could you also add a practical example to make it clearer?",
			"Please explain any important limitations or edge cases as well.",
		},
		summaryTooShort: "AI response is too short or not informative enough.",
		summaryPartial:  "AI response misses several aspects of the user's prompt.",
		summaryCovered:  "AI response reasonably covers the user's prompt but could use more examples or depth.",
	},
	"hi": {
		suggestion: "कृपया इस प्रश्न के लिए सही और विस्तृत उत्तर दीजिए: '%s'. सरल व्याख्या और एक उदाहरण भी जोड़ें।",
		complete: []string{
			"आपका उत्तर लगभग पूरा है। क्या आप कोई वास्तविक उदाहरण जोड़ सकते हैं?",
			"कृपया मुख्य बिंदुओं को सरल भाषा में 2–3 वाक्यों में समझाइए।",
		},
		incomplete: []string{
			"कृपया ऊपर दिए गए बिंदुओं के लिए विस्तार से उत्तर लिखिए।",
			"स्पष्टता के लिए एक व्यावहारिक उदाहरण भी दीजिए।",
			"यदि कोई सीमाएँ या खास केस हैं तो उन्हें भी समझाइए।",
		},
		summaryTooShort: "AI उत्तर बहुत छोटा है या पर्याप्त जानकारी नहीं देता।",
		summaryPartial:  "AI उत्तर में प्रश्न के कई हिस्से छूट गए हैं।",
		summaryCovered:  "AI उत्तर अधिकांश बिंदु कवर करता है, लेकिन और उदाहरण या गहराई जोड़ी जा सकती है.",
		improvement: "\n\nउत्तर को बेहतर बनाने के लिए:\n" +
			"1. प्रश्न का सही और स्पष्ट परिभाषा से शुरुआत करें।\n" +
			"2. 2–3 सरल वाक्यों में मुख्य बिंदु समझाएँ.\n" +
			"3. एक वास्तविक जीवन का उदाहरण जोड़ें ताकि शुरुआत करने वाला भी समझ सके.\n" +
			"4. जहाँ ज़रूरी हो, अंतर, फायदे–नुकसान या सीमाएँ भी लिखें.",
	},
	"mr": {
		suggestion: "कृपया या प्रश्नाचे योग्य आणि सविस्तर उत्तर द्या: '%s'. सोपी समजावणी आणि एक उदाहरण जोडा.",
		complete: []string{
			"तुमचे उत्तर जवळजवळ पूर्ण आहे. एखादे प्रत्यक्ष उदाहरण देऊ शकता का?",
			"कृपया मुख्य मुद्दे २–३ सोप्या वाक्यांत समजावून सांगा.",
		},
		incomplete: []string{
			"वरील मुद्द्यांवर अधिक सविस्तर उत्तर लिहा.",
			"स्पष्टतेसाठी एखादे प्रत्यक्ष उदाहरण द्या.",
			"महत्वाच्या मर्यादा किंवा विशेष केसेस असल्यास त्या देखील नमूद करा.",
		},
		summaryTooShort: "AI चे उत्तर खूप लहान आहे किंवा पुरेशी माहिती देत नाही.",
		summaryPartial:  "AI उत्तरात प्रश्नातील काही महत्वाचे भाग राहिले आहेत.",
		summaryCovered:  "AI उत्तर मुख्य मुद्दे कव्हर करतो, पण अधिक उदाहरणे किंवा सविस्तर स्पष्टीकरण देता येईल.",
		improvement: "\n\nहे उत्तर सुधारण्यासाठी:\n" +
			"1. प्रश्नाचे स्पष्ट आणि बरोबर परिभाषा लिहा.\n" +
			"2. मुख्य मुद्दे २–३ सोप्या वाक्यांत समजावून सांगा.\n" +
			"3. सुरुवातीच्या विद्यार्थ्यालाही समजेल असा प्रत्यक्ष जीवनातील उदाहरण जोडा.\n" +
			"4. गरज असेल तिथे फरक, फायदे–तोटे आणि मर्यादा नमूद करा.",
	},
	"es": {
		suggestion: "Por favor da una respuesta completa para: '%s'. Incluye una explicación sencilla y un ejemplo.",
		complete: []string{
			"Tu respuesta está casi completa. ¿Puedes añadir un ejemplo real?",
			"Explica las ideas principales en 2–3 frases sencillas.",
		},
		incomplete: []string{
			"Por favor desarrolla más los puntos indicados arriba.",
			"Añade un ejemplo práctico para que sea más claro.",
			"Si hay limitaciones o casos especiales, explícalos también.",
		},
		summaryTooShort: "La respuesta de la IA es demasiado corta o poco informativa.",
		summaryPartial:  "La respuesta de la IA omite varios aspectos importantes de la pregunta.",
		summaryCovered:  "La respuesta de la IA cubre la mayor parte, pero puede mejorarse con más ejemplos o detalle.",
		improvement: "\n\nPara mejorar esta respuesta:\n" +
			"1. Empieza con una definición clara y correcta.\n" +
			"2. Explica las ideas clave en 2–3 frases sencillas.\n" +
			"3. Añade un ejemplo del mundo real que cualquiera pueda entender.\n" +
			"4. Menciona diferencias, ventajas/desventajas o limitaciones si aplican.",
	},
}

// NormalizeLang maps a language code onto one of en, hi, mr or es by prefix.
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch {
	case lang == "":
		return DefaultLanguage
	case strings.HasPrefix(lang, "hi"):
		return "hi"
	case strings.HasPrefix(lang, "mr"):
		return "mr"
	case strings.HasPrefix(lang, "es"):
		return "es"
	}
	return DefaultLanguage
}

func localeFor(lang string) locale {
	return locales[NormalizeLang(lang)]
}

// Suggestion asks for a detailed answer to one missing topic.
func Suggestion(topic, lang string) string {
	return fmt.Sprintf(localeFor(lang).suggestion, topic)
}

// GenericFollowUps returns two "deepen" prompts when nothing is missing and
// three "expand, clarify, edge cases" prompts otherwise.
func GenericFollowUps(lang string, hasMissing bool) []string {
	l := localeFor(lang)
	src := l.complete
	if hasMissing {
		src = l.incomplete
	}
	return append([]string(nil), src...)
}

// Summary describes answer quality by band: too short, below 6, or 6 and above.
func Summary(score float64, tooShort bool, lang string) string {
	l := localeFor(lang)
	switch {
	case tooShort:
		return l.summaryTooShort
	case score < 6:
		return l.summaryPartial
	}
	return l.summaryCovered
}

// ImprovementBlock is the localized instruction block appended after the
// English improved answer. It is empty for English.
func ImprovementBlock(lang string) string {
	return localeFor(lang).improvement
}
