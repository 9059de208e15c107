/*
 * @module testutil/samples
 * @description 内置AS/400样例数据目录与遗留列名现代化规则，供桩服务和离线演示使用
 * @architecture 静态数据目录 - 样例数据与重命名规则编译期内置，无外部依赖
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 无状态查表
 * @rules 样例类型集合与客户端SampleKinds保持一致；未命中重命名表的列名退化为snake_case
 * @dependencies strings, unicode, modernize-client/client
 * @refs testutil/stub_server.go
 */

package testutil

import (
	"strings"
	"unicode"

	"modernize-client/client"
)

// sampleCatalog 样例数据目录，键与客户端SampleKinds一致
var sampleCatalog = map[string]client.SampleData{
	"customer": {
		Description: "AS/400 Customer Master File (CUSTMST)",
		Data: `CUSTNO,CUSTNAME,ADDR1,ADDR2,CITY,STATE,ZIP,PHONE,SALESREP,CREDITLMT,BALANCE
001234,ACME CORPORATION,123 MAIN ST,,CHICAGO,IL,60601,3125551234,REP001,50000.00,25000.00
002345,GLOBAL SYSTEMS INC,456 OAK AVE,SUITE 100,NEW YORK,NY,10001,2125555678,REP002,75000.00,35000.00
003456,TECH SOLUTIONS LLC,789 PINE RD,,LOS ANGELES,CA,90210,3235559876,REP003,100000.00,45000.00
004567,MANUFACTURING CO,321 ELM ST,BUILDING B,DETROIT,MI,48201,3135554321,REP001,200000.00,75000.00
005678,RETAIL PARTNERS,654 MAPLE AVE,,ATLANTA,GA,30301,4045556789,REP004,150000.00,60000.00`,
		Columns:     []string{"CUSTNO", "CUSTNAME", "ADDR1", "ADDR2", "CITY", "STATE", "ZIP", "PHONE", "SALESREP", "CREDITLMT", "BALANCE"},
		RecordCount: 5,
		TypicalUse:  "Customer management, billing, sales analysis",
	},
	"employee": {
		Description: "AS/400 Employee Payroll Data (PAYROLL)",
		Data: `EMPNO,EMPNAME,DEPT,JOBTITLE,HIREDATE,SALARY,BONUS,TAXCODE,SSN,STATUS
E001,JOHN SMITH,ACCT,ACCOUNTANT,19951015,45000.00,2000.00,A,123456789,A
E002,JANE DOE,ENGR,ENGINEER,20000301,55000.00,5000.00,B,234567890,A
E003,BOB JOHNSON,SALES,SALES REP,19981120,40000.00,3000.00,A,345678901,A
E004,ALICE BROWN,MGMT,MANAGER,19921201,75000.00,10000.00,C,456789012,A
E005,CHARLIE DAVIS,IT,DEVELOPER,20050615,60000.00,4000.00,B,567890123,A`,
		Columns:     []string{"EMPNO", "EMPNAME", "DEPT", "JOBTITLE", "HIREDATE", "SALARY", "BONUS", "TAXCODE", "SSN", "STATUS"},
		RecordCount: 5,
		TypicalUse:  "Payroll processing, HR management, reporting",
	},
	"inventory": {
		Description: "AS/400 Inventory Records (INVMST)",
		Data: `PARTNO,PARTDESC,QTY,UNITPRICE,LOCATION,VENDOR,LASTORDER,REORDERLVL,CATEGORY
P1001,WIDGET TYPE A,150,12.50,WH01,VENDOR001,20231201,25,WIDGETS
P1002,GADGET BLUE,75,25.99,WH02,VENDOR002,20231215,10,GADGETS
P1003,COMPONENT X1,200,5.75,WH01,VENDOR001,20231210,50,COMPONENTS
P1004,ASSEMBLY KIT,45,89.99,WH03,VENDOR003,20231205,15,ASSEMBLIES
P1005,SPARE PART Y2,300,3.25,WH01,VENDOR001,20231218,100,SPARES`,
		Columns:     []string{"PARTNO", "PARTDESC", "QTY", "UNITPRICE", "LOCATION", "VENDOR", "LASTORDER", "REORDERLVL", "CATEGORY"},
		RecordCount: 5,
		TypicalUse:  "Inventory management, procurement, stock control",
	},
	"transactions": {
		Description: "AS/400 Financial Transactions (TRANLOG)",
		Data: `TRANID,ACCTNO,TRANDATE,AMOUNT,TRANTYPE,DESCRIPTION,REFNO,CUSTNO,EMPNO
T001,1001,20240101,1500.00,CR,DEPOSIT,DEP001,001234,E001
T002,1001,20240102,-250.00,DB,WITHDRAWAL,WD001,001234,E001
T003,1002,20240103,2000.00,CR,PAYMENT RECEIVED,PAY001,002345,E002
T004,1003,20240104,-750.00,DB,SERVICE CHARGE,SC001,003456,E003
T005,1001,20240105,500.00,CR,INTEREST PAYMENT,INT001,001234,E001`,
		Columns:     []string{"TRANID", "ACCTNO", "TRANDATE", "AMOUNT", "TRANTYPE", "DESCRIPTION", "REFNO", "CUSTNO", "EMPNO"},
		RecordCount: 5,
		TypicalUse:  "Financial reporting, audit trails, transaction processing",
	},
	"orders": {
		Description: "AS/400 Sales Orders (ORDMST)",
		Data: `ORDERNO,CUSTNO,ORDERDT,SHIPDT,SALESREP,ITEMNO,QTY,UNITPRICE,TOTAL,STATUS
O001,001234,20240115,20240118,REP001,P1001,10,12.50,125.00,SHIPPED
O002,002345,20240116,20240119,REP002,P1002,5,25.99,129.95,SHIPPED
O003,003456,20240117,,REP003,P1003,20,5.75,115.00,PENDING
O004,001234,20240118,20240121,REP001,P1004,2,89.99,179.98,SHIPPED
O005,004567,20240119,,REP001,P1005,50,3.25,162.50,PROCESSING`,
		Columns:     []string{"ORDERNO", "CUSTNO", "ORDERDT", "SHIPDT", "SALESREP", "ITEMNO", "QTY", "UNITPRICE", "TOTAL", "STATUS"},
		RecordCount: 5,
		TypicalUse:  "Order processing, sales tracking, fulfillment",
	},
	"vendors": {
		Description: "AS/400 Vendor Master (VENDMST)",
		Data: `VENDORNO,VENDORNAME,CONTACT,PHONE,EMAIL,ADDR1,CITY,STATE,ZIP,PAYTERMS,STATUS
VENDOR001,ACME SUPPLIES INC,JOHN ADAMS,5551234567,jadams@acmesupplies.com,100 SUPPLY ST,BOSTON,MA,02101,NET30,ACTIVE
VENDOR002,TECH COMPONENTS LLC,SARAH JONES,5552345678,sjones@techcomp.com,200 TECH BLVD,AUSTIN,TX,73301,NET15,ACTIVE
VENDOR003,GLOBAL MANUFACTURING,MIKE CHEN,5553456789,mchen@globalmfg.com,300 FACTORY RD,DETROIT,MI,48201,NET45,ACTIVE
VENDOR004,OFFICE SOLUTIONS,LISA TAYLOR,5554567890,ltaylor@officesol.com,400 BUSINESS WAY,DENVER,CO,80201,NET30,INACTIVE
VENDOR005,SHIPPING PARTNERS,TOM WILSON,5555678901,twilson@shippartners.com,500 LOGISTICS DR,ATLANTA,GA,30301,COD,ACTIVE`,
		Columns:     []string{"VENDORNO", "VENDORNAME", "CONTACT", "PHONE", "EMAIL", "ADDR1", "CITY", "STATE", "ZIP", "PAYTERMS", "STATUS"},
		RecordCount: 5,
		TypicalUse:  "Vendor management, procurement, accounts payable",
	},
}

// legacyRenames 常见AS/400字段名的现代化映射表
var legacyRenames = map[string]string{
	"CUSTNO":     "customer_number",
	"CUSTID":     "customer_id",
	"CUSTNAME":   "customer_name",
	"EMPNO":      "employee_number",
	"EMPNAME":    "employee_name",
	"ADDR1":      "address_line_1",
	"ADDR2":      "address_line_2",
	"ZIP":        "zip_code",
	"ZIPCODE":    "zip_code",
	"PHONE":      "phone_number",
	"SALESREP":   "sales_rep",
	"CREDITLMT":  "credit_limit",
	"BALANCE":    "account_balance",
	"DEPT":       "department",
	"JOBTITLE":   "job_title",
	"HIREDATE":   "hire_date",
	"TAXCODE":    "tax_code",
	"PARTNO":     "part_number",
	"PARTDESC":   "part_description",
	"QTY":        "quantity",
	"UNITPRICE":  "unit_price",
	"LASTORDER":  "last_order_date",
	"REORDERLVL": "reorder_level",
	"TRANID":     "transaction_id",
	"ACCTNO":     "account_number",
	"TRANDATE":   "transaction_date",
	"TRANTYPE":   "transaction_type",
	"REFNO":      "reference_number",
	"ORDERNO":    "order_number",
	"ORDERDT":    "order_date",
	"SHIPDT":     "ship_date",
	"ITEMNO":     "item_number",
	"VENDORNO":   "vendor_number",
	"VENDORNAME": "vendor_name",
	"PAYTERMS":   "payment_terms",
	"DESC":       "description",
	"DESCR":      "description",
	"AMT":        "amount",
}

// modernColumnName 把遗留列名转换为现代snake_case名称
func modernColumnName(col string) string {
	trimmed := strings.TrimSpace(col)
	if trimmed == "" {
		return "unknown_column"
	}
	if modern, ok := legacyRenames[strings.ToUpper(trimmed)]; ok {
		return modern
	}
	return toSnakeCase(trimmed)
}

// toSnakeCase 保守的snake_case转换：驼峰断词、非字母数字折叠为下划线
func toSnakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	prevUnderscore := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
			prevUnderscore = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevLower = unicode.IsLower(r)
			prevUnderscore = false
		default:
			if !prevUnderscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			prevLower = false
			prevUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "column"
	}
	return out
}
