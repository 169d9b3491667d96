package scanning

// ClassifyPrompt asks a model to label an image with one closed-set document kind
const ClassifyPrompt = `Analyze this image and determine if it's a:
1. "cheque" - Bank cheque/check with elements like payee line, account details, signature line
2. "bill" - Invoice/receipt/bill with vendor details, items, amounts, tax information
3. "unknown" - Neither a cheque nor a bill

Respond with just one word: "cheque", "bill", or "unknown"`

// ConfirmChequePrompt is the yes/no check run before cheque extraction
const ConfirmChequePrompt = `Is this image a bank cheque/check? Respond with just 'yes' or 'no'.
Look for key cheque elements: bank name, payee line, date field, amount box,
signature line, account details, etc. If multiple of these elements are missing,
it's likely not a valid cheque image.`

// ConfirmBillPrompt is the yes/no check run before bill extraction
const ConfirmBillPrompt = `Is this image a bill/invoice/receipt? Respond with just 'yes' or 'no'.
Look for key bill elements: vendor/company name, invoice number, date,
item details, amounts, tax information, etc. If multiple of these elements are missing,
it's likely not a valid bill image.`

// ChequePrimaryPrompt is the detailed cheque extraction prompt
const ChequePrimaryPrompt = `Analyze this cheque image and extract the following details in EXACTLY this JSON format:
{
    "bank": "Bank Name",
    "account_holder": "Account Holder Name",
    "account_number": "Account Number",
    "amount": "Amount in numbers (digits only, no symbols, e.g., 3300000)",
    "ifsc_code": "IFSC Code",
    "date": "DD/MM/YYYY",
    "has_signature": true/false
}

CRITICAL INSTRUCTIONS FOR AMOUNT EXTRACTION:
1. Locate both the numerical amount (digits) and written amount (words)
2. If numerical amount is present and clear, use that
3. If numerical amount is unclear, convert the written amount to digits:
    - "Thirty Three Lakhs" -> 3300000
    - "Thirty Three Thousand" -> 33000
4. Amount must be digits only (no ₹, Rs, commas, or spaces)
5. If amount cannot be determined, use "N/A"

IMPORTANT:
1. Return ONLY the JSON object
2. Do not include any additional text or explanations
3. All amounts must be in complete rupees (no paise)`

// ChequeSecondaryPrompt is the shorter prompt given to the cross-checking model
const ChequeSecondaryPrompt = `Extract the following details from this cheque image in JSON format:
{
    "bank": "Bank Name",
    "account_holder": "Account Holder Name",
    "account_number": "Account Number",
    "amount": "Amount in numbers (digits only, no symbols)",
    "ifsc_code": "IFSC Code",
    "date": "DD/MM/YYYY",
    "has_signature": true/false
}

IMPORTANT:
1. For amount, extract both numerical and written amounts if available
2. Convert written amounts to digits (e.g., "Thirty Three Thousand" -> 33000)
3. Return ONLY valid JSON with no additional text`

// BillPrompt is the bill/invoice extraction prompt used by both models
const BillPrompt = `Analyze this bill/invoice image and extract the following details in EXACTLY this JSON format:
{
    "vendor_name": "Company/Vendor Name",
    "bill_number": "Invoice/Bill Number",
    "date": "MM/DD/YYYY or DD/MM/YYYY format as shown",
    "total_amount": "Total amount with decimal (e.g., 182.40)",
    "tax_amount": "Tax/GST amount with decimal (e.g., 12.50)",
    "gst_number": "GST Number/Tax ID",
    "vendor_phone": "Vendor Phone Number",
    "vendor_email": "Vendor Email Address",
    "customer_name": "Customer/Bill To Name",
    "payment_method": "Payment Method (Cash/Card/UPI/etc.)",
    "currency": "Currency symbol if visible (₹, $, €, etc.) or best guess based on location indicators"
}

CRITICAL INSTRUCTIONS FOR AMOUNT EXTRACTION:
1. Locate the total amount and tax amounts clearly
2. Include decimal places (e.g., 182.40, not 18240)
3. If amount cannot be determined, use "N/A"
4. Extract the amount exactly as shown, preserving decimal formatting
5. For currency, look for currency symbols in the document or deduce from:
   - GST numbers (India = ₹)
   - Phone number formats (Indian vs US patterns)
   - Email domains (.in = ₹, .com could be $)
   - Company names (Pvt Ltd = ₹, Inc/Corp = $)

IMPORTANT:
1. Return ONLY the JSON object
2. Do not include any additional text or explanations
3. Keep decimal precision for all amounts
4. Extract date exactly as shown (MM/DD/YYYY or DD/MM/YYYY)`
