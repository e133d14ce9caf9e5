package claude

// contactExtractionPrompt captures the instructions sent when converting a
// raw note into structured contact fields. Update this text centrally so
// every call stays in sync.
const contactExtractionPrompt = `Extract contact information from this note. Someone just met this person at an event or meeting and quickly jotted this down.

Note: "%s"

Return a JSON object with these fields (use null for anything not mentioned):
{
  "name": "Full name of the person",
  "company": "Company or organization name",
  "title": "Job title or role if mentioned",
  "email": "Email address if mentioned",
  "phone": "Phone number if mentioned",
  "event": "Event name or location where they met",
  "context": "Key topics discussed, interests, or notable details",
  "follow_up": "One concrete suggested follow-up action based on the context",
  "search_company_domain": "Best guess at company website domain for enrichment (e.g. kelloggs.com). null if unsure."
}

Return ONLY valid JSON. No markdown, no explanation.`

// cardExtractionPrompt instructs the vision model to read a business card.
// Fields it cannot confidently read must stay null rather than guessed.
const cardExtractionPrompt = `Read this business card photo and extract its contents.

Return a JSON object with these fields:
{
  "name": "Full name printed on the card, or null",
  "company": "Company or organization, or null",
  "title": "Job title, or null",
  "email": "Email address, or null",
  "phone": "Phone number, or null",
  "raw_text": "A natural sentence covering every detail visible on the card, e.g. 'Met [Name], [Title] at [Company]. Email: [email]. Phone: [phone]. Website: [url].'"
}

Only include values you can confidently read from the image. Use null for
anything absent or illegible. Do not guess or invent fields.
Return ONLY valid JSON. No markdown, no explanation.`

// dossierPrompt frames the synthesis request. The section list and the
// demand for specificity mirror what makes the output useful: a briefing the
// operator can act on, not filler.
const dossierPrompt = `Based on the following information about a person I just met, write a concise dossier/briefing.

%s

Write the dossier using these sections (skip any section where you genuinely have no information — do NOT fabricate):

**Background:** Career history, education, key roles. Be specific with companies, titles, and dates where available.

**Current Role:** What they do now, their responsibilities, recent initiatives or focus areas.

**Recent Activity:** Articles, talks, panels, projects, or news mentions. Include specifics — titles, dates, venues.

**Company Context:** What's happening at their company that's relevant — strategy, news, challenges, market position.

**Connection Points:** Based on my note about our conversation, what are natural threads to continue? Shared interests, mutual challenges, collaboration angles.

**Suggested Approach:** A specific, actionable follow-up suggestion that references something concrete from the research. Not generic — make it something only someone who did their homework would say.

Be direct and specific. No filler, no corporate speak. If the web research is thin, say so honestly rather than padding with generalities. Always end with a Suggested Approach section containing one concrete follow-up action.`
