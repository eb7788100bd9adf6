package llm

const faqPrompt = `Extract FAQ (Frequently Asked Questions) data from the following text.
Return ONLY a JSON array of objects with "question" and "answer" fields.
Each question must be a clear standalone question with a complete answer.
Leave out incomplete or unclear pairs.

Text: %s`

const contactPrompt = `Extract contact information from the following text.
Return ONLY a JSON object with "emails" (array), "phone_numbers" (array) and "address" (string or null).

Text: %s`

const descriptionPrompt = `Clean and summarize the following brand description%s.
Make it concise, professional and informative. Remove HTML, excessive formatting and repetition.
Keep it under 200 words and focus on what makes the brand unique.

Raw text: %s`

const socialPrompt = `Extract social media profiles from the following text.
Return ONLY a JSON array of objects with "platform", "url" and "handle" fields.
Platforms: instagram, facebook, twitter, tiktok, youtube, linkedin, pinterest.

Text: %s`

const similarityPrompt = `Rate the similarity of these two brands on a scale of 0.0 to 1.0.
Consider product types, brand descriptions and target markets.
Return ONLY a single decimal number between 0.0 and 1.0.

Brand 1: %s
Brand 2: %s`

const searchTermsPrompt = `Based on this brand data, generate 5-8 search terms for finding similar competitor brands.
Focus on product categories, style and target market.
Return ONLY a JSON array of strings.

Brand: %s`
